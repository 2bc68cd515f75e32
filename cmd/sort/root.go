package sort

import (
	"fmt"
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/spf13/cobra"
)

var (
	rpcStore store.IStore

	sortBy    string
	sortGets  []string
	sortLimit []int64
	sortDesc  bool
	sortAlpha bool
	sortStore string
	sortShow  bool

	// SortCmd represents the sort command
	SortCmd = &cobra.Command{
		Use:   "sort [key]",
		Short: "Sorts the elements of a list or set",
		Long: `Sorts the elements of a list or set numerically (or lexicographically with --alpha).
With --by the elements are sorted by the values of other keys, the first * of the
pattern is replaced with the element ("nosort" keeps the stored order). With --get
the values of other keys are returned instead of the elements, "#" returns the element.`,
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  setupSortClient,
		PersistentPostRunE: func(*cobra.Command, []string) error { return util.Finish(rpcStore) },
		RunE:               runSort,
	}
)

func init() {
	// Add common RPC flags to the sort command
	util.SetupRPCClientFlags(SortCmd)

	SortCmd.Flags().StringVar(&sortBy, "by", "", util.WrapString("pattern of the keys to sort by (e.g. weight_*)"))
	SortCmd.Flags().StringArrayVar(&sortGets, "get", nil, util.WrapString("pattern of the keys to return (repeatable, # for the element)"))
	SortCmd.Flags().Int64SliceVar(&sortLimit, "limit", nil, util.WrapString("offset,count of the returned window"))
	SortCmd.Flags().BoolVar(&sortDesc, "desc", false, util.WrapString("sort in descending order"))
	SortCmd.Flags().BoolVar(&sortAlpha, "alpha", false, util.WrapString("sort lexicographically instead of numerically"))
	SortCmd.Flags().StringVar(&sortStore, "store", "", util.WrapString("store the result as list in this key"))
	SortCmd.Flags().BoolVar(&sortShow, "show", false, util.WrapString("print the command before running it"))
}

// setupSortClient initializes the RPC store client
func setupSortClient(cmd *cobra.Command, _ []string) error {
	var err error
	rpcStore, err = util.NewStore(cmd)
	return err
}

func runSort(_ *cobra.Command, args []string) error {
	query := rpcStore.Sort(args[0])

	if sortBy != "" {
		query.By(sortBy)
	}
	for _, g := range sortGets {
		query.Get(g)
	}
	if len(sortLimit) > 0 {
		if len(sortLimit) != 2 {
			return fmt.Errorf("--limit needs offset,count")
		}
		query.Limit(sortLimit[0], sortLimit[1])
	}
	if sortDesc {
		query.Desc()
	}
	if sortAlpha {
		query.Alpha()
	}
	if sortStore != "" {
		query.Store(sortStore)
	}

	if sortShow {
		fmt.Println(query.Command())
	}

	results, err := query.Exec()
	if err != nil {
		return err
	}

	if sortStore != "" {
		n, err := results[0].Number()
		if err != nil {
			return err
		}
		util.PrintInteger(n)
		return nil
	}
	util.PrintResults(results)
	return nil
}
