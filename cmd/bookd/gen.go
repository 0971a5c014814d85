package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newGenCmd builds the "gen" subcommand: a demo/load-test data source
// that prints a synthetic stream of add/update/cancel records to
// stdout. Unlike records submitted by a real feed handler, order IDs
// here have no external identity to preserve, so the generator mints
// them itself with uuid rather than threading an opaque caller-supplied
// string through.
func newGenCmd() *cobra.Command {
	var (
		symbols []string
		count   int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "print a synthetic stream of records for demos and load tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				symbols = []string{"AAPL"}
			}
			rng := rand.New(rand.NewSource(seed))
			resting := make([]string, 0, count)

			for i := 0; i < count; i++ {
				ts := strconv.FormatInt(time.Now().UnixNano(), 10)
				symbol := symbols[rng.Intn(len(symbols))]

				switch {
				case len(resting) > 0 && rng.Intn(3) == 0:
					// cancel a resting order
					idx := rng.Intn(len(resting))
					id := resting[idx]
					resting = append(resting[:idx], resting[idx+1:]...)
					fmt.Printf("%s|%s|c\n", ts, id)

				case len(resting) > 0 && rng.Intn(3) == 0:
					// update a resting order's size
					id := resting[rng.Intn(len(resting))]
					fmt.Printf("%s|%s|u|%d\n", ts, id, rng.Intn(1000)+1)

				default:
					id := uuid.NewString()
					resting = append(resting, id)
					side := "B"
					if rng.Intn(2) == 0 {
						side = "S"
					}
					price := 100 + rng.Float64()*50
					fmt.Printf("%s|%s|a|%s|%s|%.5f|%d\n", ts, id, symbol, side, price, rng.Intn(1000)+1)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "ticker symbols to generate records for (default AAPL)")
	cmd.Flags().IntVar(&count, "count", 100, "number of records to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed, for reproducible demo runs")
	return cmd
}
