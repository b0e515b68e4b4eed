// Command zstat prints count, sum, min, max, average and standard deviations
// of the numbers in files (or stdin), one row per file and a total.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/glencornell/Statistic/zlog"
	"github.com/glencornell/Statistic/zstatistic"
	"github.com/glencornell/Statistic/ztelemetry"
	"github.com/pkg/errors"
)

type options struct {
	noVariance  bool
	useFloat32  bool
	metricsAddr string
	verbose     bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.noVariance, "novariance", false, "don't track variance; stddev columns are NaN.")
	flag.BoolVar(&opts.useFloat32, "float32", false, "accumulate float32 samples.")
	flag.StringVar(&opts.metricsAddr, "metrics", "", "after reading, serve the total on this address's /metrics, e.g. :9090 or 9090.")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging.")
	flag.Parse()

	if opts.verbose {
		zlog.PrintPriority = zlog.DebugLevel
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := dispatch(ctx, opts, flag.Args(), os.Stdout)
	if err != nil {
		zlog.Error(err, "zstat")
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, opts options, names []string, out io.Writer) error {
	switch {
	case opts.useFloat32 && opts.noVariance:
		return run[float32, uint64, zstatistic.NoStdDev[float32]](ctx, opts, 32, names, out)
	case opts.useFloat32:
		return run[float32, uint64, zstatistic.StdDev[float32]](ctx, opts, 32, names, out)
	case opts.noVariance:
		return run[float64, uint64, zstatistic.NoStdDev[float64]](ctx, opts, 64, names, out)
	}
	return run[float64, uint64, zstatistic.StdDev[float64]](ctx, opts, 64, names, out)
}

func run[T zstatistic.Real, C zstatistic.Unsigned, V zstatistic.Tracker[T, V]](ctx context.Context, opts options, bits int, names []string, out io.Writer) error {
	var total zstatistic.Statistic[T, C, V]
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "name\tcount\tsum\tmin\tmax\taverage\tstddev\tsample-stddev\t")
	if len(names) == 0 {
		names = []string{"-"}
	}
	for _, name := range names {
		var s zstatistic.Statistic[T, C, V]
		err := readFile(name, bits, &s)
		if err != nil {
			return err
		}
		zlog.Debug("read", name+":", s.String())
		if len(names) > 1 {
			writeRow(tw, name, s.Summary())
		}
		total.Merge(&s)
	}
	writeRow(tw, "total", total.Summary())
	err := tw.Flush()
	if err != nil {
		return zlog.Wrap(err, "write")
	}
	if opts.metricsAddr == "" {
		return nil
	}
	collector := ztelemetry.NewStatisticCollector[T, C, V]("zstat", "samples", "samples read", nil)
	collector.Merge(&total)
	reg := ztelemetry.NewRegistry(true)
	reg.MustRegister(collector)
	zlog.Info("serving totals on", opts.metricsAddr+"/metrics")
	return ztelemetry.Serve(ctx, opts.metricsAddr, reg)
}

func writeRow[T zstatistic.Real, C zstatistic.Unsigned](w io.Writer, name string, s zstatistic.Summary[T, C]) {
	fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%g\t\n", name, s.Count, s.Sum, s.Min, s.Max, s.Average, s.PopulationStdDev, s.SampleStdDev)
}

func readFile[T zstatistic.Real, C zstatistic.Unsigned, V zstatistic.Tracker[T, V]](name string, bits int, s *zstatistic.Statistic[T, C, V]) error {
	if name == "-" {
		return readSamples(os.Stdin, "stdin", bits, s)
	}
	file, err := os.Open(name)
	if err != nil {
		return zlog.Wrap(err, "open")
	}
	defer file.Close()
	return readSamples(file, name, bits, s)
}

// readSamples adds every whitespace-separated number in r to s.
// Tokens that aren't numbers are warned about and skipped; # starts a comment.
// Numbers out of range for bits are added as +/-Inf.
func readSamples[T zstatistic.Real, C zstatistic.Unsigned, V zstatistic.Tracker[T, V]](r io.Reader, name string, bits int, s *zstatistic.Statistic[T, C, V]) error {
	reader := bufio.NewReader(r)
	line := 0
	for {
		text, rerr := reader.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return zlog.Wrap(rerr, "read", name)
		}
		if text == "" && rerr == io.EOF {
			return nil
		}
		line++
		text, _, _ = strings.Cut(text, "#")
		for _, field := range strings.Fields(text) {
			f, err := strconv.ParseFloat(field, bits)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				zlog.Warn(fmt.Sprintf("%s:%d:", name, line), "skipping", strconv.Quote(field))
				continue
			}
			s.Add(T(f))
		}
		if rerr == io.EOF {
			return nil
		}
	}
}
