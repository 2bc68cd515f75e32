package kv

import (
	"fmt"
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"strconv"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := codec.Text(args[1])
			if asObject, _ := cmd.Flags().GetBool("object"); asObject {
				var obj any
				if err := yaml.Unmarshal([]byte(args[1]), &obj); err != nil {
					return fmt.Errorf("value is not valid YAML/JSON: %w", err)
				}
				value = codec.Object(obj)
			}
			if err := rpcStore.Set(args[0], value); err != nil {
				return err
			}
			util.PrintOK()
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rpcStore.Get(args[0])
			if err != nil {
				return err
			}
			if asObject, _ := cmd.Flags().GetBool("object"); asObject && !result.IsNil() {
				var obj any
				if err := result.Object(&obj); err != nil {
					return err
				}
				out, err := yaml.Marshal(obj)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
				return nil
			}
			util.PrintResult(result)
			return nil
		},
	}
	setNXCmd = &cobra.Command{
		Use:   "setnx [key] [value]",
		Short: "Sets the value for a key only if the key does not exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rpcStore.SetNX(args[0], codec.Text(args[1]))
			if err != nil {
				return err
			}
			util.PrintBool(ok)
			return nil
		},
	}
	getSetCmd = &cobra.Command{
		Use:   "getset [key] [value]",
		Short: "Sets the value for a key and returns the old value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := rpcStore.GetSet(args[0], codec.Text(args[1]))
			if err != nil {
				return err
			}
			util.PrintResult(old)
			return nil
		},
	}
	mgetCmd = &cobra.Command{
		Use:   "mget [key...]",
		Short: "Reads the values of multiple keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := rpcStore.MGet(args...)
			if err != nil {
				return err
			}
			util.PrintResults(results)
			return nil
		},
	}
	incrCmd = &cobra.Command{
		Use:   "incr [key]",
		Short: "Increments the number stored at key by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCounter(rpcStore.Incr(args[0]))
		},
	}
	decrCmd = &cobra.Command{
		Use:   "decr [key]",
		Short: "Decrements the number stored at key by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCounter(rpcStore.Decr(args[0]))
		},
	}
	incrByCmd = &cobra.Command{
		Use:   "incrby [key] [delta]",
		Short: "Increments the number stored at key by delta",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := util.ParseInt("delta", args[1])
			if err != nil {
				return err
			}
			return printCounter(rpcStore.IncrBy(args[0], delta))
		},
	}
	decrByCmd = &cobra.Command{
		Use:   "decrby [key] [delta]",
		Short: "Decrements the number stored at key by delta",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := util.ParseInt("delta", args[1])
			if err != nil {
				return err
			}
			return printCounter(rpcStore.DecrBy(args[0], delta))
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key...]",
		Short: "Deletes keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCounter(rpcStore.Del(args...))
		},
	}
	existsCmd = &cobra.Command{
		Use:   "exists [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := rpcStore.Exists(args[0])
			if err != nil {
				return err
			}
			util.PrintBool(found)
			return nil
		},
	}
	renameCmd = &cobra.Command{
		Use:   "rename [key] [newkey]",
		Short: "Renames a key, overwriting newkey",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Rename(args[0], args[1]); err != nil {
				return err
			}
			util.PrintOK()
			return nil
		},
	}
	renameNXCmd = &cobra.Command{
		Use:   "renamenx [key] [newkey]",
		Short: "Renames a key only if newkey does not exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rpcStore.RenameNX(args[0], args[1])
			if err != nil {
				return err
			}
			util.PrintBool(ok)
			return nil
		},
	}
	expireCmd = &cobra.Command{
		Use:   "expire [key] [seconds]",
		Short: "Sets a timeout on a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := util.ParseInt("seconds", args[1])
			if err != nil {
				return err
			}
			ok, err := rpcStore.Expire(args[0], seconds)
			if err != nil {
				return err
			}
			util.PrintBool(ok)
			return nil
		},
	}
	ttlCmd = &cobra.Command{
		Use:   "ttl [key]",
		Short: "Returns the remaining time to live of a key in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCounter(rpcStore.TTL(args[0]))
		},
	}
	typeCmd = &cobra.Command{
		Use:   "type [key]",
		Short: "Returns the kind of value stored at key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := rpcStore.Type(args[0])
			if err != nil {
				return err
			}
			fmt.Println(t)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [pattern]",
		Short: "Lists all keys matching a glob pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := rpcStore.Keys(args[0])
			if err != nil {
				return err
			}
			util.PrintStrings(keys)
			return nil
		},
	}
	randomKeyCmd = &cobra.Command{
		Use:   "randomkey",
		Short: "Returns a random key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, found, err := rpcStore.RandomKey()
			if err != nil {
				return err
			}
			if !found {
				util.PrintResult(codec.NilResult(nil))
				return nil
			}
			util.PrintStrings([]string{key})
			return nil
		},
	}
	moveCmd = &cobra.Command{
		Use:   "move [key] [db]",
		Short: "Moves a key to another database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("db must be a number: %w", err)
			}
			ok, err := rpcStore.Move(args[0], db)
			if err != nil {
				return err
			}
			util.PrintBool(ok)
			return nil
		},
	}
)

func printCounter(n int64, err error) error {
	if err != nil {
		return err
	}
	util.PrintInteger(n)
	return nil
}
