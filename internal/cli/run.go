package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/tally/internal/config"
	"github.com/wesleyorama2/tally/internal/output"
	"github.com/wesleyorama2/tally/internal/workload"
	"github.com/wesleyorama2/tally/metrics"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a synthetic workload and print the merged report",
		Long: `Run a workload file: every worker goroutine records into its own registry,
pages are collected while the run progresses and merged at the end.

  tally run --config workload.yaml
  tally run --config workload.yaml --workers 16 --duration 10s --live
  tally run --config workload.yaml --format json --query '$.report.events.requests.count'
  tally run --config workload.yaml --format prometheus --namespace shop`,
		RunE: runWorkload,
	}

	cmd.Flags().StringP("config", "c", "", "Workload configuration file (YAML or JSON)")
	cmd.Flags().StringP("format", "f", "", "Output format: text, console, json, yaml, prometheus (default console on a terminal, text otherwise)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringP("query", "q", "", "Print a single value from the JSON result (e.g. $.report.events.requests.count)")
	cmd.Flags().String("namespace", "tally", "Metric name prefix for prometheus output")
	cmd.Flags().Int("workers", 0, "Override the number of workers")
	cmd.Flags().Int("iterations", 0, "Override iterations per worker")
	cmd.Flags().String("duration", "", "Override run duration (e.g. 30s)")
	cmd.Flags().Float64("rate", 0, "Override iterations per second per worker (0 = unpaced)")
	cmd.Flags().Uint64("seed", 0, "Override the sampling seed")
	cmd.Flags().Bool("live", false, "Print merged progress while the workload runs")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// createOutput opens the --output file.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func runWorkload(cmd *cobra.Command, args []string) (err error) {
	configFile, _ := cmd.Flags().GetString("config")
	formatName, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	query, _ := cmd.Flags().GetString("query")
	namespace, _ := cmd.Flags().GetString("namespace")
	live, _ := cmd.Flags().GetBool("live")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, createErr := createOutput(outputPath)
		if createErr != nil {
			return fmt.Errorf("creating output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		out = f
	}

	format, err := resolveFormat(formatName, query, out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := slog.Default().With(slog.String("workload", cfg.Name))
	runner := workload.NewRunner(cfg, workload.WithLogger(logger))

	logger.Info("starting workload",
		slog.Int("workers", cfg.Workers),
		slog.Int("iterations", cfg.Iterations),
		slog.Float64("rate", cfg.Rate),
		slog.Duration("duration", time.Duration(cfg.Duration)))

	var wg sync.WaitGroup
	progressDone := make(chan struct{})
	if live {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idleAfter := 2 * max(time.Second, cfg.FlushInterval.GetDuration(config.DefaultFlushInterval))
			printProgress(cmd.ErrOrStderr(), runner, time.Second, idleAfter, progressDone)
		}()
	}

	result, runErr := runner.Run(ctx)
	close(progressDone)
	wg.Wait()

	if runErr != nil {
		return fmt.Errorf("running workload: %w", runErr)
	}

	if query != "" {
		data, err := output.MarshalJSON(result)
		if err != nil {
			return err
		}
		value, err := output.Query(string(data), query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, value)
		return err
	}

	scheme := output.NoColorScheme()
	if !noColor && output.IsTerminal(out) {
		scheme = output.DefaultColorScheme()
	}

	return output.Write(out, format, result, output.Options{Scheme: scheme, Namespace: namespace})
}

// applyOverrides copies explicitly set flags onto the loaded config.
func applyOverrides(cmd *cobra.Command, cfg *config.WorkloadConfig) error {
	flags := cmd.Flags()

	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("duration") {
		s, _ := flags.GetString("duration")
		d, err := config.ParseDurationString(s)
		if err != nil {
			return fmt.Errorf("invalid --duration: %w", err)
		}
		cfg.Duration = config.Duration(d)
		if !flags.Changed("iterations") {
			cfg.Iterations = 0
		}
	}
	if flags.Changed("rate") {
		cfg.Rate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}

	if cfg.Workers <= 0 {
		return fmt.Errorf("--workers must be positive")
	}
	if cfg.Iterations < 0 {
		return fmt.Errorf("--iterations must not be negative")
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("--duration must not be negative")
	}
	if cfg.Rate < 0 {
		return fmt.Errorf("--rate must not be negative")
	}
	if cfg.Iterations == 0 && cfg.Duration == 0 {
		return fmt.Errorf("either iterations or duration must be set")
	}
	return nil
}

// resolveFormat picks the output format; a query always works on JSON.
func resolveFormat(name, query string, out io.Writer) (output.OutputFormat, error) {
	if query != "" {
		return output.FormatJSON, nil
	}
	if name == "" {
		if output.IsTerminal(out) {
			return output.FormatConsole, nil
		}
		return output.FormatText, nil
	}
	return output.ParseFormat(name)
}

// printProgress prints a one-line merged summary every interval until done
// is closed. Sources that have not submitted a page for idleAfter are
// reported as idle.
func printProgress(w io.Writer, runner *workload.Runner, interval, idleAfter time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	coll := runner.Collector()
	start := time.Now()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			report, err := coll.Report()
			if err != nil {
				slog.Warn("progress report failed", slog.Any("error", err))
				continue
			}

			sources := coll.Sources()
			idle := 0
			for _, source := range sources {
				if seen, ok := coll.LastSeen(source); ok && time.Since(seen) > idleAfter {
					idle++
				}
			}
			fmt.Fprintln(w, progressLine(time.Since(start), len(sources), idle, report))
		}
	}
}

func progressLine(elapsed time.Duration, sources, idle int, report *metrics.Report) string {
	var total uint64
	parts := make([]string, 0, report.Len())
	for _, name := range report.Names() {
		s, _ := report.Get(name)
		total += s.Count
		parts = append(parts, fmt.Sprintf("%s=%d", name, s.Count))
	}

	sourceInfo := fmt.Sprintf("%d sources", sources)
	if idle > 0 {
		sourceInfo += fmt.Sprintf(" (%d idle)", idle)
	}
	return fmt.Sprintf("[%s] %s, %d observations: %s",
		elapsed.Round(time.Second), sourceInfo, total, strings.Join(parts, " "))
}
