package lock

import (
	"encoding/hex"
	"fmt"
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/lockmgr"
	"github.com/ValentinKolb/respkv/rpc/client"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"time"
)

var (
	lockMgr      lockmgr.ILockManager
	closeLockMgr func() error

	lockTTL     uint64
	lockWait    time.Duration
	lockBackoff time.Duration

	// LockCommands groups the lock subcommands
	LockCommands = &cobra.Command{
		Use:                "lock",
		Short:              "Acquire and release ownership-checked locks",
		Long:               "Locks are plain string keys holding a random owner ID. Only the holder of the owner ID can release a lock.",
		PersistentPreRunE:  setupLockClient,
		PersistentPostRunE: teardownLockClient,
	}

	acquireCmd = &cobra.Command{
		Use:   "acquire [key]",
		Short: "Acquire a lock and print its owner ID",
		Args:  cobra.ExactArgs(1),
		RunE:  runAcquire,
	}

	releaseCmd = &cobra.Command{
		Use:   "release [key] [ownerID]",
		Short: "Release a lock",
		Long:  "Release a lock using the key and the hex owner ID printed by acquire. Releasing a lock that no longer exists succeeds.",
		Args:  cobra.ExactArgs(2),
		RunE:  runRelease,
	}
)

func init() {
	LockCommands.AddCommand(acquireCmd, releaseCmd)
	util.SetupRPCClientFlags(LockCommands)

	// the persistent "timeout" flag is the network timeout, hence the prefix
	acquireCmd.Flags().Uint64Var(&lockTTL, "lock-timeout", 30, util.WrapString("Seconds after which the lock expires (0 for never)"))
	acquireCmd.Flags().DurationVar(&lockWait, "wait", 0, util.WrapString("Keep retrying for this long while the lock is held by someone else"))
	acquireCmd.Flags().DurationVar(&lockBackoff, "retry-interval", 100*time.Millisecond, util.WrapString("Pause between two attempts when --wait is set"))
}

func setupLockClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetClientConfig()
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return err
	}

	connector, err := util.GetConnector()
	if err != nil {
		return err
	}

	lockMgr, closeLockMgr, err = client.NewRPCLockMgr(*config, connector)
	return err
}

func teardownLockClient(_ *cobra.Command, _ []string) error {
	if closeLockMgr != nil {
		_ = closeLockMgr()
	}
	return util.Finish(nil)
}

func runAcquire(_ *cobra.Command, args []string) error {
	key := args[0]
	deadline := time.Now().Add(lockWait)

	for {
		ok, ownerID, err := lockMgr.AcquireLock(key, lockTTL)
		if err != nil {
			return fmt.Errorf("acquire %q: %w", key, err)
		}
		if ok {
			fmt.Printf("%s owner=%s\n", color.GreenString("acquired"), hex.EncodeToString(ownerID))
			return nil
		}
		if !time.Now().Add(lockBackoff).Before(deadline) {
			fmt.Println(color.YellowString("held by another owner"))
			return nil
		}
		time.Sleep(lockBackoff)
	}
}

func runRelease(_ *cobra.Command, args []string) error {
	key := args[0]

	ownerID, err := hex.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("owner ID must be a hex string: %w", err)
	}

	released, err := lockMgr.ReleaseLock(key, ownerID)
	if err != nil {
		return fmt.Errorf("release %q: %w", key, err)
	}

	if released {
		fmt.Println(color.GreenString("released"))
	} else {
		fmt.Println(color.YellowString("not released, the lock belongs to another owner"))
	}
	return nil
}
