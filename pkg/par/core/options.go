package core

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/ib-77/chunkpool/pkg/par"
)

type OptionKey string

const (
	EngineOptionKey OptionKey = "engine_options"
	WorkerOptionKey OptionKey = "worker_options"
)

const (
	DefaultBlockSize = 1000
	DefaultThreshold = 5
)

// Compaction selects how the filter's second phase builds its output.
type Compaction int

const (
	// CompactSerial scans the mark buffer once on the calling goroutine.
	CompactSerial Compaction = iota
	// CompactParallel pre-aggregates per-chunk counts into offsets and copies
	// chunks into place with a second dispatch round.
	CompactParallel
)

func (c Compaction) String() string {
	switch c {
	case CompactSerial:
		return "serial"
	case CompactParallel:
		return "parallel"
	}
	return "unknown"
}

type MaxLimitOption struct {
	Value int
}

type WorkerOptions struct {
	MaxCount MaxLimitOption
}

// Options configure one engine call.
type Options struct {
	// Lines is the number of workers launched per round.
	Lines int
	// BlockSize is the chunk granularity.
	BlockSize int
	// Threshold is the residual length at or below which reduce stops
	// dispatching rounds and finishes on the calling goroutine.
	Threshold int
	// Compaction is the filter compaction strategy.
	Compaction Compaction
	// Timeout bounds a whole call. Zero means no limit.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Lines:      runtime.NumCPU(),
		BlockSize:  DefaultBlockSize,
		Threshold:  DefaultThreshold,
		Compaction: CompactSerial,
	}
}

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	var errs []error
	if o.Lines < 1 {
		errs = append(errs, par.Invalidf("worker count must be >= 1, got %d", o.Lines))
	}
	if o.BlockSize < 1 {
		errs = append(errs, par.Invalidf("block size must be >= 1, got %d", o.BlockSize))
	}
	if o.Threshold < 1 {
		errs = append(errs, par.Invalidf("threshold must be >= 1, got %d", o.Threshold))
	}
	if o.Compaction != CompactSerial && o.Compaction != CompactParallel {
		errs = append(errs, par.Invalidf("unknown compaction %d", o.Compaction))
	}
	if o.Timeout < 0 {
		errs = append(errs, par.Invalidf("timeout must be >= 0, got %s", o.Timeout))
	}
	return errors.Join(errs...)
}

func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, EngineOptionKey, opts)
}

func WithWorkerOptions(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxLimitOption{Value: maxWorkers}})
}

func GetWorkerMaxCount(ctx context.Context, defaultMaxWorkers int) int {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	if ok {
		return options.MaxCount.Value
	}
	return defaultMaxWorkers
}

// OptionsFrom returns the options stored on ctx, or defaults. A worker count
// set with WithWorkerOptions overrides the Lines of either.
func OptionsFrom(ctx context.Context, defaults Options) Options {
	opts, ok := ctx.Value(EngineOptionKey).(Options)
	if !ok {
		opts = defaults
	}
	opts.Lines = GetWorkerMaxCount(ctx, opts.Lines)
	return opts
}
