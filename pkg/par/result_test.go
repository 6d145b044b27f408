package par

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golangplus/errors"
)

func TestResult_Kinds(t *testing.T) {
	t.Parallel()

	s := Success([]int32{1})
	if !s.IsSuccess() || !s.HasResult() || s.IsFailure() || s.IsCancel() || s.IsEmpty() {
		t.Fatalf("unexpected success flags: %+v", s)
	}

	f := Fail[int32](errors.New("x"))
	if f.IsSuccess() || f.HasResult() || !f.IsFailure() || f.IsCancel() {
		t.Fatalf("unexpected failure flags: %+v", f)
	}

	c := Cancel[int32](context.Canceled)
	if c.IsSuccess() || c.HasResult() || !c.IsCancel() {
		t.Fatalf("unexpected cancel flags: %+v", c)
	}

	var empty Result[int32]
	if !empty.IsEmpty() {
		t.Fatalf("zero Result must be empty")
	}
}

func TestResult_Timed(t *testing.T) {
	t.Parallel()

	r := Success(int32(3))
	timed := r.Timed(5 * time.Millisecond)
	if timed.Elapsed() != 5*time.Millisecond || r.Elapsed() != 0 {
		t.Fatalf("Timed must return a copy, got %s and %s", timed.Elapsed(), r.Elapsed())
	}
	if timed.Id() != r.Id() || timed.Result() != 3 {
		t.Fatalf("Timed must keep id and value")
	}
}

func TestFromError(t *testing.T) {
	t.Parallel()

	wrapped := errorsp.WithStacksAndMessage(context.DeadlineExceeded, "reduce failed")
	if r := FromError[int32](wrapped); !r.IsCancel() {
		t.Fatalf("deadline must map to cancel, got %+v", r)
	}
	if r := FromError[int32](Invalidf("bad")); r.IsCancel() || !r.IsFailure() {
		t.Fatalf("invalid configuration must map to failure, got %+v", r)
	}
}

func TestCancelFrom_KeepsKind(t *testing.T) {
	t.Parallel()

	from := Cancel[[]int32](context.Canceled).Timed(time.Second)
	to := CancelFrom[[]int32, int32](from)
	if !to.IsCancel() || to.Err() != from.Err() || to.Elapsed() != time.Second || to.Id() != from.Id() {
		t.Fatalf("unexpected carried result: %+v", to)
	}

	failed := CancelFrom[[]int32, int32](Fail[[]int32](errors.New("x")))
	if failed.IsCancel() || !failed.IsFailure() {
		t.Fatalf("failure must stay a failure: %+v", failed)
	}
}

func TestErrorKinds_ThroughStacks(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	we := &WorkerError{Round: 1, Worker: 2, Start: 10, End: 20, Err: &PanicError{Value: cause}}
	err := errorsp.WithStacksAndMessage(we, "map failed")

	if !IsWorkerFailure(err) {
		t.Fatalf("expected worker failure: %v", err)
	}
	got, ok := AsWorkerError(err)
	if !ok || got != we {
		t.Fatalf("expected the original WorkerError, got %v", got)
	}
	if IsInvalidConfiguration(err) || IsCancellationError(err) {
		t.Fatalf("worker failure misclassified: %v", err)
	}

	invalid := errorsp.WithStacks(fmt.Errorf("options: %w", Invalidf("block size must be >= 1, got %d", 0)))
	if !IsInvalidConfiguration(invalid) {
		t.Fatalf("expected invalid configuration: %v", invalid)
	}
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	if n := len(GetErrors(nil)); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}
	joined := errors.Join(errors.New("a"), errors.New("b"))
	if n := len(GetErrors(joined)); n != 2 {
		t.Fatalf("expected 2 errors, got %d", n)
	}
	if n := len(GetErrors(errors.New("a"))); n != 1 {
		t.Fatalf("expected 1 error, got %d", n)
	}
}

func TestWrapf(t *testing.T) {
	t.Parallel()

	if err := Wrapf(nil, "map failed"); err != nil {
		t.Fatalf("nil must stay nil, got %v", err)
	}

	we := &WorkerError{Round: 0, Worker: 1, Start: 0, End: 4, Err: &PanicError{Value: "x"}}
	err := Wrapf(Wrapf(we, "round %d", 0), "map failed")

	var se *StackError
	if !errors.As(err, &se) {
		t.Fatalf("expected a StackError, got %T", err)
	}
	if se.Err != error(we) {
		t.Fatalf("wrapping twice must extend one stack, got %T", se.Err)
	}
	if !errors.Is(err, ErrWorkerFailure) {
		t.Fatalf("errors.Is must reach the sentinel: %v", err)
	}
	var got *WorkerError
	if !errors.As(err, &got) || got != we {
		t.Fatalf("errors.As must reach the WorkerError, got %v", got)
	}
	var pe *PanicError
	if !errors.As(err, &pe) || pe.Value != "x" {
		t.Fatalf("errors.As must reach the PanicError, got %v", pe)
	}
	if !errors.Is(Wrapf(context.Canceled, "reduce failed"), context.Canceled) {
		t.Fatalf("errors.Is must reach context.Canceled")
	}

	// a stack taken deeper than the outer one is nested, not extended
	nested := &StackError{&errorsp.ErrorWithStacks{Err: &errorsp.ErrorWithStacks{Err: we}}}
	if !errors.Is(nested, ErrWorkerFailure) {
		t.Fatalf("errors.Is must reach through nested stacks: %v", nested)
	}
}
