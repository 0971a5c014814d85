// Command bookd runs the limit order book engine as a standalone
// process: it ingests pipe-delimited add/update/cancel records and
// reports the depth ladder for every ticker that still has an open book.
package main

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rishavpaul/limitbook/internal/ingest"
	"github.com/rishavpaul/limitbook/internal/registry"
	"github.com/rishavpaul/limitbook/internal/telemetry"
)

var (
	logLevel       string
	ringBufferSize uint64
	workers        int
	metricsAddr    string
	depthLevels    int
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookd",
		Short: "bookd maintains limit order books from a stream of records",
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().Uint64Var(&ringBufferSize, "ring-buffer-size", 8192, "ingest ring buffer size, must be a power of 2")
	cmd.PersistentFlags().IntVar(&workers, "workers", 4, "number of concurrent producers feeding the ingest pipeline")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (empty disables)")

	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newGenCmd())
	return cmd
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func newIngestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "process a file of records and print the resulting depth view",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			var collector *telemetry.Collector
			if metricsAddr != "" {
				collector = telemetry.Default()
				go serveMetrics(metricsAddr, logger)
			}

			reg := registry.NewWithMetrics(logger, collector)

			lines, err := readLines(file)
			if err != nil {
				return fmt.Errorf("read records: %w", err)
			}

			if err := runIngest(reg, lines, logger, collector); err != nil {
				return err
			}

			for _, ticker := range reg.Tickers() {
				view, ok := reg.Snapshot(ticker, depthLevels)
				if !ok {
					continue
				}
				printDepth(view)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "path to a record file, or - for stdin")
	cmd.Flags().IntVar(&depthLevels, "depth", 10, "number of paired bid/ask levels to print per ticker")
	return cmd
}

// runIngest fans the input lines out across workers concurrent
// producers and drains them through a single ingest.Processor, so the
// registry only ever sees one record at a time regardless of how many
// goroutines are submitting. Lines are keyed by order ID rather than
// round-robined, so every record that touches a given order (its add,
// any updates, its eventual cancel) is assigned to the same producer
// goroutine and submitted in file order — round-robin would let a
// worker claim a ring sequence for an order's update before another
// worker has even submitted that order's add.
func runIngest(reg *registry.BookRegistry, lines []string, logger zerolog.Logger, collector *telemetry.Collector) error {
	rb := ingest.NewRingBuffer(ingest.Config{BufferSize: ringBufferSize})
	seq := ingest.NewSequencer(rb)
	proc := ingest.NewProcessor(rb, reg, logger)
	proc.Start()
	defer proc.Shutdown()

	chunks := make([][]string, workers)
	for _, line := range lines {
		w := workerFor(orderIDOf(line), workers)
		chunks[w] = append(chunks[w], line)
	}

	var wg sync.WaitGroup
	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, line := range chunk {
				s, err := seq.Next()
				if err != nil {
					logger.Error().Err(err).Msg("ring buffer full, dropping record")
					continue
				}
				respCh := make(chan *ingest.RecordResponse, 1)
				seq.Publish(s, &ingest.RecordRequest{Line: line}, respCh)

				resp := <-respCh
				outcome := "accepted"
				if resp.Err != nil {
					outcome = "rejected"
				}
				if collector != nil {
					collector.RecordsTotal.WithLabelValues(actionOf(line), outcome).Inc()
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

func actionOf(line string) string {
	fields := strings.SplitN(line, "|", 4)
	if len(fields) < 3 {
		return "unknown"
	}
	return fields[2]
}

// orderIDOf extracts field 1 (order_id) from a raw record line without
// fully parsing it; malformed lines fall back to the empty string,
// which still hashes to a single consistent worker.
func orderIDOf(line string) string {
	fields := strings.SplitN(line, "|", 3)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// workerFor hashes orderID to a worker index in [0, workers), so every
// record for the same order is submitted by the same goroutine and
// stays in file order relative to that order's other records.
func workerFor(orderID string, workers int) int {
	h := fnv.New32a()
	h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(workers))
}

func readLines(path string) ([]string, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func printDepth(view registry.BookView) {
	fmt.Printf("=== %s ===\n", view.Ticker)
	fmt.Printf("%-12s %-10s | %-10s %-12s\n", "ask qty", "ask px", "bid px", "bid qty")
	for _, row := range view.Depth {
		fmt.Printf("%-12d %-10s | %-10s %-12d\n", row.AskQty, row.AskPrice.String(), row.BidPrice.String(), row.BidQty)
	}
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
