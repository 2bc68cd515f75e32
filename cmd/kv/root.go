package kv

import (
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/spf13/cobra"
)

var (
	rpcStore store.IStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform key and string operations",
		PersistentPreRunE:  setupKVClient,
		PersistentPostRunE: func(*cobra.Command, []string) error { return util.Finish(rpcStore) },
	}
)

func init() {
	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(setNXCmd)
	KeyValueCommands.AddCommand(getSetCmd)
	KeyValueCommands.AddCommand(mgetCmd)
	KeyValueCommands.AddCommand(incrCmd)
	KeyValueCommands.AddCommand(decrCmd)
	KeyValueCommands.AddCommand(incrByCmd)
	KeyValueCommands.AddCommand(decrByCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(existsCmd)
	KeyValueCommands.AddCommand(renameCmd)
	KeyValueCommands.AddCommand(renameNXCmd)
	KeyValueCommands.AddCommand(expireCmd)
	KeyValueCommands.AddCommand(ttlCmd)
	KeyValueCommands.AddCommand(typeCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(randomKeyCmd)
	KeyValueCommands.AddCommand(moveCmd)

	// Value flags
	setCmd.Flags().Bool("object", false, util.WrapString("parse the value as YAML/JSON and store it with the configured serializer"))
	getCmd.Flags().Bool("object", false, util.WrapString("decode the value with the configured serializer"))
}

// setupKVClient initializes the RPC store client
func setupKVClient(cmd *cobra.Command, _ []string) error {
	var err error
	rpcStore, err = util.NewStore(cmd)
	return err
}
