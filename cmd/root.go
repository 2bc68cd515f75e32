package cmd

import (
	"fmt"
	"github.com/ValentinKolb/respkv/cmd/kv"
	"github.com/ValentinKolb/respkv/cmd/list"
	"github.com/ValentinKolb/respkv/cmd/lock"
	"github.com/ValentinKolb/respkv/cmd/perf"
	"github.com/ValentinKolb/respkv/cmd/server"
	"github.com/ValentinKolb/respkv/cmd/set"
	"github.com/ValentinKolb/respkv/cmd/sort"
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "respkv",
		Short: "client for RESP key-value stores",
		Long: fmt.Sprintf(`respkv (v%s)

A client for key-value stores that speak the RESP protocol (Redis and
compatible servers), with typed values, pooled connections and locks.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of respkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("respkv v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(list.ListCommands)
	RootCmd.AddCommand(set.SetCommands)
	RootCmd.AddCommand(server.ServerCommands)
	RootCmd.AddCommand(sort.SortCmd)
	RootCmd.AddCommand(lock.LockCommands)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer for object values (json, yaml, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
	key = "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("print the client metrics in prometheus format after the command"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
