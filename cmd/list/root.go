package list

import (
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/spf13/cobra"
)

var (
	rpcStore store.IStore

	// ListCommands represents the list command group
	ListCommands = &cobra.Command{
		Use:                "list",
		Short:              "Perform list operations",
		PersistentPreRunE:  setupListClient,
		PersistentPostRunE: func(*cobra.Command, []string) error { return util.Finish(rpcStore) },
	}

	lpushCmd = &cobra.Command{
		Use:   "lpush [key] [value...]",
		Short: "Prepends values to a list (the last value ends up first)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLength(rpcStore.LPush(args[0], codec.Texts(args[1:]...)...))
		},
	}
	rpushCmd = &cobra.Command{
		Use:   "rpush [key] [value...]",
		Short: "Appends values to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLength(rpcStore.RPush(args[0], codec.Texts(args[1:]...)...))
		},
	}
	lpopCmd = &cobra.Command{
		Use:   "lpop [key]",
		Short: "Removes and returns the first element of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printValue(rpcStore.LPop(args[0]))
		},
	}
	rpopCmd = &cobra.Command{
		Use:   "rpop [key]",
		Short: "Removes and returns the last element of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printValue(rpcStore.RPop(args[0]))
		},
	}
	lrangeCmd = &cobra.Command{
		Use:   "lrange [key] [start] [stop]",
		Short: "Returns the elements between start and stop (inclusive, negative counts from the end)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, stop, err := parseRange(args[1], args[2])
			if err != nil {
				return err
			}
			results, err := rpcStore.LRange(args[0], start, stop)
			if err != nil {
				return err
			}
			util.PrintResults(results)
			return nil
		},
	}
	lindexCmd = &cobra.Command{
		Use:   "lindex [key] [index]",
		Short: "Returns the element at index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := util.ParseInt("index", args[1])
			if err != nil {
				return err
			}
			return printValue(rpcStore.LIndex(args[0], index))
		},
	}
	lsetCmd = &cobra.Command{
		Use:   "lset [key] [index] [value]",
		Short: "Replaces the element at index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := util.ParseInt("index", args[1])
			if err != nil {
				return err
			}
			if err := rpcStore.LSet(args[0], index, codec.Text(args[2])); err != nil {
				return err
			}
			util.PrintOK()
			return nil
		},
	}
	lremCmd = &cobra.Command{
		Use:   "lrem [key] [count] [value]",
		Short: "Removes occurrences of value (count > 0 from the head, < 0 from the tail, 0 all)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := util.ParseInt("count", args[1])
			if err != nil {
				return err
			}
			return printLength(rpcStore.LRem(args[0], count, codec.Text(args[2])))
		},
	}
	ltrimCmd = &cobra.Command{
		Use:   "ltrim [key] [start] [stop]",
		Short: "Keeps only the elements between start and stop",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, stop, err := parseRange(args[1], args[2])
			if err != nil {
				return err
			}
			if err := rpcStore.LTrim(args[0], start, stop); err != nil {
				return err
			}
			util.PrintOK()
			return nil
		},
	}
	llenCmd = &cobra.Command{
		Use:   "llen [key]",
		Short: "Returns the length of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLength(rpcStore.LLen(args[0]))
		},
	}
)

func init() {
	// Add common RPC flags to the list command
	util.SetupRPCClientFlags(ListCommands)

	// Add subcommands
	ListCommands.AddCommand(lpushCmd)
	ListCommands.AddCommand(rpushCmd)
	ListCommands.AddCommand(lpopCmd)
	ListCommands.AddCommand(rpopCmd)
	ListCommands.AddCommand(lrangeCmd)
	ListCommands.AddCommand(lindexCmd)
	ListCommands.AddCommand(lsetCmd)
	ListCommands.AddCommand(lremCmd)
	ListCommands.AddCommand(ltrimCmd)
	ListCommands.AddCommand(llenCmd)
}

// setupListClient initializes the RPC store client
func setupListClient(cmd *cobra.Command, _ []string) error {
	var err error
	rpcStore, err = util.NewStore(cmd)
	return err
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func parseRange(startArg, stopArg string) (int64, int64, error) {
	start, err := util.ParseInt("start", startArg)
	if err != nil {
		return 0, 0, err
	}
	stop, err := util.ParseInt("stop", stopArg)
	if err != nil {
		return 0, 0, err
	}
	return start, stop, nil
}

func printLength(n int64, err error) error {
	if err != nil {
		return err
	}
	util.PrintInteger(n)
	return nil
}

func printValue(result codec.Result, err error) error {
	if err != nil {
		return err
	}
	util.PrintResult(result)
	return nil
}
