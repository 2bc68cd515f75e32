package server

import (
	"fmt"
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sort"
	"time"
)

var (
	rpcStore store.IStore

	// ServerCommands represents the administration command group
	ServerCommands = &cobra.Command{
		Use:                "server",
		Short:              "Perform administration operations",
		PersistentPreRunE:  setupServerClient,
		PersistentPostRunE: func(*cobra.Command, []string) error { return util.Finish(rpcStore) },
	}

	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Checks that the store answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := rpcStore.Ping(); err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", color.GreenString("PONG"), time.Since(start))
			return nil
		},
	}
	flushDBCmd = &cobra.Command{
		Use:   "flushdb",
		Short: "Deletes all keys of the selected database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(rpcStore.FlushDB())
		},
	}
	flushAllCmd = &cobra.Command{
		Use:   "flushall",
		Short: "Deletes all keys of all databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(rpcStore.FlushAll())
		},
	}
	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "Saves the dataset to disk (blocking)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(rpcStore.Save())
		},
	}
	bgSaveCmd = &cobra.Command{
		Use:   "bgsave",
		Short: "Saves the dataset to disk in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStatus(rpcStore.BgSave())
		},
	}
	lastSaveCmd = &cobra.Command{
		Use:   "lastsave",
		Short: "Returns the time of the last successful save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := rpcStore.LastSave()
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s ago)\n", t.Format(time.RFC3339), time.Since(t).Truncate(time.Second))
			return nil
		},
	}
	dbSizeCmd = &cobra.Command{
		Use:   "dbsize",
		Short: "Returns the number of keys of the selected database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := rpcStore.DBSize()
			if err != nil {
				return err
			}
			util.PrintInteger(n)
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints information and statistics about the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := rpcStore.Info()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(info))
			for k := range info {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %-30s: %s\n", color.CyanString(k), info[k])
			}
			return nil
		},
	}
)

func init() {
	// Add common RPC flags to the server command
	util.SetupRPCClientFlags(ServerCommands)

	// Add subcommands
	ServerCommands.AddCommand(pingCmd)
	ServerCommands.AddCommand(flushDBCmd)
	ServerCommands.AddCommand(flushAllCmd)
	ServerCommands.AddCommand(saveCmd)
	ServerCommands.AddCommand(bgSaveCmd)
	ServerCommands.AddCommand(lastSaveCmd)
	ServerCommands.AddCommand(dbSizeCmd)
	ServerCommands.AddCommand(infoCmd)
}

// setupServerClient initializes the RPC store client
func setupServerClient(cmd *cobra.Command, _ []string) error {
	var err error
	rpcStore, err = util.NewStore(cmd)
	return err
}

func printStatus(err error) error {
	if err != nil {
		return err
	}
	util.PrintOK()
	return nil
}
