// Command parsort-bench measures the parallel sort against the sequential
// fallback on random input and verifies that both produce the same result.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"

	"github.com/parsort/parsort/pool"
	"github.com/parsort/parsort/sort"
)

var (
	size    int
	permits int
	runs    int
	workers int
	seed    int64
)

func main() {
	cmd := &cobra.Command{
		Use:          "parsort-bench",
		Short:        "Benchmark and verify the parallel sort",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bench()
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", 1<<22, "number of elements to sort")
	cmd.Flags().IntVarP(&permits, "permits", "p", 0, "permit budget (0 selects the default)")
	cmd.Flags().IntVarP(&runs, "runs", "r", 5, "number of timed runs")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.GOMAXPROCS(0), "pool workers")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bench() error {
	rng := rand.New(rand.NewSource(seed))
	workerPool := pool.New(workers)
	defer workerPool.Shutdown()

	fmt.Printf("sorting %d elements, %d workers, %d runs, seed %d\n", size, workers, runs, seed)

	parallel := make([]float64, 0, runs)
	sequential := make([]float64, 0, runs)
	for run := 1; run <= runs; run++ {
		input := make([]int, size)
		for i := range input {
			input[i] = rng.Int()
		}
		reference := slices.Clone(input)

		start := time.Now()
		if err := sort.SortRange(workerPool, input, 0, len(input), permits); err != nil {
			return err
		}
		parElapsed := time.Since(start)

		start = time.Now()
		slices.Sort(reference)
		seqElapsed := time.Since(start)

		if !slices.Equal(input, reference) {
			return fmt.Errorf("run %d: parallel result disagrees with sequential sort", run)
		}

		parallel = append(parallel, parElapsed.Seconds())
		sequential = append(sequential, seqElapsed.Seconds())
		fmt.Printf("run %d: parallel %v, sequential %v\n", run, parElapsed, seqElapsed)
	}

	parMean := stat.Mean(parallel, nil)
	seqMean := stat.Mean(sequential, nil)
	fmt.Printf("parallel:   mean %.3fs, stddev %.3fs\n", parMean, stat.StdDev(parallel, nil))
	fmt.Printf("sequential: mean %.3fs, stddev %.3fs\n", seqMean, stat.StdDev(sequential, nil))
	fmt.Printf("speedup:    %.2fx\n", seqMean/parMean)
	return nil
}
