package set

import (
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/spf13/cobra"
)

var (
	rpcStore store.IStore
	storeDst string

	// SetCommands represents the set command group
	SetCommands = &cobra.Command{
		Use:                "set",
		Short:              "Perform set operations",
		PersistentPreRunE:  setupSetClient,
		PersistentPostRunE: func(*cobra.Command, []string) error { return util.Finish(rpcStore) },
	}

	saddCmd = &cobra.Command{
		Use:   "sadd [key] [member...]",
		Short: "Adds members to a set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCount(rpcStore.SAdd(args[0], codec.Texts(args[1:]...)...))
		},
	}
	sremCmd = &cobra.Command{
		Use:   "srem [key] [member...]",
		Short: "Removes members from a set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCount(rpcStore.SRem(args[0], codec.Texts(args[1:]...)...))
		},
	}
	smembersCmd = &cobra.Command{
		Use:   "smembers [key]",
		Short: "Returns all members of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printMembers(rpcStore.SMembers(args[0]))
		},
	}
	sismemberCmd = &cobra.Command{
		Use:   "sismember [key] [member]",
		Short: "Checks if member is part of a set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rpcStore.SIsMember(args[0], codec.Text(args[1]))
			if err != nil {
				return err
			}
			util.PrintBool(ok)
			return nil
		},
	}
	scardCmd = &cobra.Command{
		Use:   "scard [key]",
		Short: "Returns the number of members of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCount(rpcStore.SCard(args[0]))
		},
	}
	smoveCmd = &cobra.Command{
		Use:   "smove [src] [dst] [member]",
		Short: "Moves a member from one set to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rpcStore.SMove(args[0], args[1], codec.Text(args[2]))
			if err != nil {
				return err
			}
			util.PrintBool(ok)
			return nil
		},
	}
	sinterCmd = &cobra.Command{
		Use:   "sinter [key...]",
		Short: "Returns the intersection of sets (use --store to save it)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if storeDst != "" {
				return printCount(rpcStore.SInterStore(storeDst, args...))
			}
			return printMembers(rpcStore.SInter(args...))
		},
	}
	sunionCmd = &cobra.Command{
		Use:   "sunion [key...]",
		Short: "Returns the union of sets (use --store to save it)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if storeDst != "" {
				return printCount(rpcStore.SUnionStore(storeDst, args...))
			}
			return printMembers(rpcStore.SUnion(args...))
		},
	}
	sdiffCmd = &cobra.Command{
		Use:   "sdiff [key...]",
		Short: "Returns the members of the first set missing in all others (use --store to save it)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if storeDst != "" {
				return printCount(rpcStore.SDiffStore(storeDst, args...))
			}
			return printMembers(rpcStore.SDiff(args...))
		},
	}
)

func init() {
	// Add common RPC flags to the set command
	util.SetupRPCClientFlags(SetCommands)

	// Add subcommands
	SetCommands.AddCommand(saddCmd)
	SetCommands.AddCommand(sremCmd)
	SetCommands.AddCommand(smembersCmd)
	SetCommands.AddCommand(sismemberCmd)
	SetCommands.AddCommand(scardCmd)
	SetCommands.AddCommand(smoveCmd)
	SetCommands.AddCommand(sinterCmd)
	SetCommands.AddCommand(sunionCmd)
	SetCommands.AddCommand(sdiffCmd)

	// Store flag of the set algebra commands
	for _, c := range []*cobra.Command{sinterCmd, sunionCmd, sdiffCmd} {
		c.Flags().StringVar(&storeDst, "store", "", util.WrapString("store the result in this key and print its size"))
	}
}

// setupSetClient initializes the RPC store client
func setupSetClient(cmd *cobra.Command, _ []string) error {
	var err error
	rpcStore, err = util.NewStore(cmd)
	return err
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func printCount(n int64, err error) error {
	if err != nil {
		return err
	}
	util.PrintInteger(n)
	return nil
}

func printMembers(results []codec.Result, err error) error {
	if err != nil {
		return err
	}
	util.PrintResults(results)
	return nil
}
