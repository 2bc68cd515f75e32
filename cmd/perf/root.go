package perf

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/respkv/cmd/util"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/pool"
	"github.com/fatih/color"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	// PerfCmd represents the perf command
	PerfCmd = &cobra.Command{
		Use:                "perf",
		Short:              "Performance testing tool for RESP stores",
		Long:               "Runs concurrent workloads over pooled connections and reports throughput and latency percentiles.",
		PreRunE:            processPerfConfig,
		RunE:               run,
		PersistentPostRunE: func(*cobra.Command, []string) error { return util.Finish(nil) },
	}
	perfKeyPrefix        = "__perf"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)

	storePool pool.IStorePool
	registry  = gometrics.NewRegistry()
)

// percentiles reported per test
var percentiles = []float64{0.5, 0.95, 0.99}

// benchmark is one workload. op is called in parallel with a counter unique per goroutine.
type benchmark struct {
	name    string
	prepare func(s store.IStore, key func(int) string) error
	op      func(s store.IStore, key func(int) string, counter int) error
}

func init() {
	// Add common RPC flags to the perf command
	util.SetupRPCClientFlags(PerfCmd)

	// add flags
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines per CPU to use for the benchmark"))
	key = "large-value-size"
	PerfCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	PerfCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	config := util.GetClientConfig()
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}
	c, err := util.GetConnector()
	if err != nil {
		return err
	}

	storePool = pool.NewStorePool(context.Background(), *config, c, s)
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	defer storePool.Close(context.Background())

	fmt.Println("Performance testing tool for RESP stores")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	// Fail early if the store is not reachable
	if err := storePool.WithStore(context.Background(), func(s store.IStore) error { return s.Ping() }); err != nil {
		return err
	}

	fmt.Println("starting tests...")

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	benchmarks := []benchmark{
		{
			name: "set",
			op: func(s store.IStore, key func(int) string, counter int) error {
				return s.Set(key(counter), codec.Text("test"))
			},
		},
		{
			name: "set-large",
			op: func(s store.IStore, key func(int) string, counter int) error {
				return s.Set(key(counter), codec.Bytes(largeValue))
			},
		},
		{
			name:    "get",
			prepare: setAll,
			op: func(s store.IStore, key func(int) string, counter int) error {
				_, err := s.Get(key(counter))
				return err
			},
		},
		{
			name: "incr",
			op: func(s store.IStore, key func(int) string, counter int) error {
				_, err := s.Incr(key(counter))
				return err
			},
		},
		{
			name: "rpush-lpop",
			op: func(s store.IStore, key func(int) string, counter int) error {
				if _, err := s.RPush(key(counter), codec.Number(int64(counter))); err != nil {
					return err
				}
				_, err := s.LPop(key(counter))
				return err
			},
		},
		{
			name:    "mixed",
			prepare: setAll,
			op: func(s store.IStore, key func(int) string, counter int) error {
				var err error
				switch counter % 4 {
				case 0: // set
					err = s.Set(key(counter), codec.Text("test"))
				case 1: // get
					_, err = s.Get(key(counter))
				case 2: // delete
					_, err = s.Del(key(counter))
				case 3: // exists
					_, err = s.Exists(key(counter))
				}
				return err
			},
		},
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	for _, bm := range benchmarks {
		if shouldSkip(bm.name) {
			results[bm.name] = testing.BenchmarkResult{}
			printResult(bm.name, testing.BenchmarkResult{}, nil)
			continue
		}
		timer := gometrics.GetOrRegisterTimer(bm.name, registry)
		result := runBenchmark(bm, timer)
		results[bm.name] = result
		printResult(bm.name, result, timer)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// runBenchmark runs a workload with testing.Benchmark. Every operation borrows a
// store from the pool and records its latency in timer.
func runBenchmark(bm benchmark, timer gometrics.Timer) testing.BenchmarkResult {
	ctx := context.Background()

	return testing.Benchmark(func(b *testing.B) {
		// prepare keys
		getKey, iter := getKeys(bm.name)

		if bm.prepare != nil {
			if err := storePool.WithStore(ctx, func(s store.IStore) error { return bm.prepare(s, getKey) }); err != nil {
				log.Printf("(%s) - error preparing keys: %v\n", bm.name, err)
			}
		}

		// cleanup
		b.Cleanup(func() {
			err := storePool.WithStore(ctx, func(s store.IStore) error {
				keys := make([]string, 0, perfKeySpread)
				iter(func(k string) { keys = append(keys, k) })
				_, err := s.Del(keys...)
				return err
			})
			if err != nil {
				log.Printf("(%s) - error deleting keys: %v\n", bm.name, err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				err := storePool.WithStore(ctx, func(s store.IStore) error {
					return bm.op(s, getKey, counter)
				})
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(%s) - error: %v\n", bm.name, err)
				}
				counter++
			}
		})
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func setAll(s store.IStore, key func(int) string) error {
	for i := 0; i < perfKeySpread; i++ {
		if err := s.Set(key(i), codec.Text("test")); err != nil {
			return err
		}
	}
	return nil
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, timer gometrics.Timer) {
	if result.NsPerOp() == 0 || timer == nil {
		fmt.Printf("%-20s%s\n", test, color.YellowString("skipped"))
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	ps := timer.Percentiles(percentiles)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%s ops/sec\tp50=%s p95=%s p99=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), color.GreenString("%.0f", opsPerSec),
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P95Ns", "P99Ns", "Skipped",
		"Endpoint", "TimeoutSec", "MaxConnections", "Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string
		ps := make([]float64, len(percentiles))

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
			ps = gometrics.GetOrRegisterTimer(test, registry).Percentiles(percentiles)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			skipped,
			config.Transport.Endpoint,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Pool.MaxConnections),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
