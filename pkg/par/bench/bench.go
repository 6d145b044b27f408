// Package bench times the parallel engine against the serial reference over a
// range of worker counts and cross-checks their results.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
	"github.com/ib-77/chunkpool/pkg/par/custom"
	"github.com/ib-77/chunkpool/pkg/par/ops"
	"github.com/ib-77/chunkpool/pkg/par/solo"
)

var ErrResultMismatch = errors.New("parallel and serial results differ")

type Config struct {
	Op         string
	Size       int
	BlockSize  int
	MaxLines   int
	Trials     int
	Threshold  int
	Compaction core.Compaction
}

func DefaultConfig() Config {
	return Config{
		Op:         "triangular",
		Size:       10000,
		BlockSize:  100,
		MaxLines:   min(runtime.NumCPU(), 8),
		Trials:     3,
		Threshold:  core.DefaultThreshold,
		Compaction: core.CompactSerial,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Size < 1 {
		errs = append(errs, par.Invalidf("size must be >= 1, got %d", c.Size))
	}
	if c.MaxLines < 1 {
		errs = append(errs, par.Invalidf("max lines must be >= 1, got %d", c.MaxLines))
	}
	if c.Trials < 1 {
		errs = append(errs, par.Invalidf("trials must be >= 1, got %d", c.Trials))
	}
	return errors.Join(errs...)
}

func (c Config) options(lines int) core.Options {
	return core.Options{
		Lines:      lines,
		BlockSize:  c.BlockSize,
		Threshold:  c.Threshold,
		Compaction: c.Compaction,
	}
}

// Trial is one parallel run and one serial run over the same input.
type Trial struct {
	ID        uuid.UUID
	Op        string
	Kind      ops.Kind
	Lines     int
	Trial     int
	Size      int
	BlockSize int
	Serial    time.Duration
	Parallel  time.Duration
	// Checked is false for non-associative folds, whose parallel result is
	// not expected to match.
	Checked bool
}

func (t Trial) Speedup() float64 {
	if t.Parallel <= 0 {
		return 0
	}
	return float64(t.Serial) / float64(t.Parallel)
}

// Input is 1..size for reductions and 0..size-1 otherwise.
func Input(kind ops.Kind, size int) []int32 {
	values := make([]int32, size)
	first := int32(0)
	if kind == ops.KindFold {
		first = 1
	}
	for i := range values {
		values[i] = first + int32(i)
	}
	return values
}

// Run executes cfg.Trials trials for every worker count from 1 to
// cfg.MaxLines. It stops at the first failure or mismatch and returns the
// trials completed before it.
func Run(ctx context.Context, cfg Config, logger *log.Logger) ([]Trial, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op, err := ops.Lookup(cfg.Op)
	if err != nil {
		return nil, err
	}

	input := Input(op.Kind, cfg.Size)
	trials := make([]Trial, 0, cfg.MaxLines*cfg.Trials)

	for lines := 1; lines <= cfg.MaxLines; lines++ {
		e, err := custom.New[int32](cfg.options(lines), custom.Handlers{}, nil)
		if err != nil {
			return trials, err
		}

		for n := 1; n <= cfg.Trials; n++ {
			t := Trial{
				ID:        uuid.New(),
				Op:        op.Name,
				Kind:      op.Kind,
				Lines:     lines,
				Trial:     n,
				Size:      cfg.Size,
				BlockSize: cfg.BlockSize,
				Checked:   op.Kind != ops.KindFold || op.Associative,
			}
			if err := runOnce(ctx, e, op, input, &t); err != nil {
				return trials, err
			}
			if logger != nil {
				logger.Printf("%s lines=%d trial=%d serial=%s parallel=%s",
					t.Op, t.Lines, t.Trial, t.Serial, t.Parallel)
			}
			trials = append(trials, t)
		}
	}
	return trials, nil
}

func runOnce(ctx context.Context, e *custom.Engine[int32], op ops.Op, input []int32, t *Trial) error {
	switch op.Kind {
	case ops.KindMap:
		p, s := e.Map(ctx, input, op.Map), solo.Map(ctx, input, op.Map)
		return check(t, p, s, equalSlices)
	case ops.KindPredicate:
		p, s := e.Filter(ctx, input, op.Predicate), solo.Filter(ctx, input, op.Predicate)
		return check(t, p, s, equalSlices)
	case ops.KindFold:
		p, s := e.Reduce(ctx, input, op.Fold), solo.Reduce(ctx, input, op.Fold)
		return check(t, p, s, func(a, b int32) bool { return a == b })
	}
	return par.Invalidf("operation %q has unknown kind %d", op.Name, op.Kind)
}

func equalSlices(a, b []int32) bool {
	return slices.Equal(a, b)
}

func check[R any](t *Trial, parallel, serial par.Result[R], equal func(a, b R) bool) error {
	if !parallel.IsSuccess() {
		return parallel.Err()
	}
	if !serial.IsSuccess() {
		return serial.Err()
	}
	t.Parallel = parallel.Elapsed()
	t.Serial = serial.Elapsed()
	if t.Checked && !equal(parallel.Result(), serial.Result()) {
		return fmt.Errorf("%w: %s with %d lines, trial %d", ErrResultMismatch, t.Op, t.Lines, t.Trial)
	}
	return nil
}

// Summary averages the trials of one worker count.
type Summary struct {
	Lines    int
	Trials   int
	Serial   time.Duration
	Parallel time.Duration
}

func (s Summary) Speedup() float64 {
	if s.Parallel <= 0 {
		return 0
	}
	return float64(s.Serial) / float64(s.Parallel)
}

// Summarize groups trials by worker count, in ascending order.
func Summarize(trials []Trial) []Summary {
	byLines := make(map[int]*Summary)
	var order []int
	for _, t := range trials {
		s, ok := byLines[t.Lines]
		if !ok {
			s = &Summary{Lines: t.Lines}
			byLines[t.Lines] = s
			order = append(order, t.Lines)
		}
		s.Trials++
		s.Serial += t.Serial
		s.Parallel += t.Parallel
	}

	slices.Sort(order)
	out := make([]Summary, 0, len(order))
	for _, lines := range order {
		s := *byLines[lines]
		s.Serial /= time.Duration(s.Trials)
		s.Parallel /= time.Duration(s.Trials)
		out = append(out, s)
	}
	return out
}

// WriteTable prints one aligned row per summary.
func WriteTable(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "lines\ttrials\tserial\tparallel\tspeedup")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.2fx\n", s.Lines, s.Trials, s.Serial, s.Parallel, s.Speedup())
	}
	return tw.Flush()
}
