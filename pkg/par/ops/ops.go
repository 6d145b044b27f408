// Package ops is a registry of named int32 operations, so callers such as the
// trials harness can pick an operation by name instead of shipping code.
package ops

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ib-77/chunkpool/pkg/par"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrDuplicate        = errors.New("duplicate operation")
)

type Kind int

const (
	KindMap Kind = iota
	KindPredicate
	KindFold
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindPredicate:
		return "filter"
	case KindFold:
		return "reduce"
	}
	return "unknown"
}

// Op is one registered operation. Exactly one of Map, Predicate and Fold is
// set, matching Kind.
type Op struct {
	Name      string
	Kind      Kind
	Map       par.Mapper[int32]
	Predicate par.Predicate[int32]
	Fold      par.Folder[int32]
	// Associative marks folds whose parallel result matches a serial fold.
	Associative bool
}

func (o Op) validate() error {
	if o.Name == "" {
		return errors.New("operation without a name")
	}
	set := 0
	for _, ok := range []bool{o.Map != nil, o.Predicate != nil, o.Fold != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("operation %q: exactly one function must be set", o.Name)
	}
	if (o.Kind == KindMap) != (o.Map != nil) ||
		(o.Kind == KindPredicate) != (o.Predicate != nil) ||
		(o.Kind == KindFold) != (o.Fold != nil) {
		return fmt.Errorf("operation %q: function does not match kind %s", o.Name, o.Kind)
	}
	return nil
}

// Registry is an immutable-after-build set of operations.
type Registry struct {
	ops map[string]Op
}

func NewRegistry(ops ...Op) (*Registry, error) {
	r := &Registry{ops: make(map[string]Op, len(ops))}
	for _, op := range ops {
		if err := op.validate(); err != nil {
			return nil, err
		}
		if _, ok := r.ops[op.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, op.Name)
		}
		r.ops[op.Name] = op
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (Op, error) {
	op, ok := r.ops[name]
	if !ok {
		return Op{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}

// LookupKind is Lookup that also checks the operation kind.
func (r *Registry) LookupKind(name string, kind Kind) (Op, error) {
	op, err := r.Lookup(name)
	if err != nil {
		return Op{}, err
	}
	if op.Kind != kind {
		return Op{}, fmt.Errorf("%w: %q is a %s operation, not %s", ErrUnknownOperation, name, op.Kind, kind)
	}
	return op, nil
}

// Names lists the registered names of one kind, sorted.
func (r *Registry) Names(kind Kind) []string {
	names := make([]string, 0, len(r.ops))
	for name, op := range r.ops {
		if op.Kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var builtins = []Op{
	{Name: "identity", Kind: KindMap, Map: Identity},
	{Name: "double", Kind: KindMap, Map: Double},
	{Name: "negate", Kind: KindMap, Map: Negate},
	{Name: "square-or-cube", Kind: KindMap, Map: SquareOrCube},
	{Name: "triangular", Kind: KindMap, Map: Triangular},

	{Name: "even", Kind: KindPredicate, Predicate: Even},
	{Name: "odd", Kind: KindPredicate, Predicate: Odd},
	{Name: "even-prefix-sum", Kind: KindPredicate, Predicate: EvenPrefixSum},

	{Name: "add", Kind: KindFold, Fold: Add, Associative: true},
	{Name: "mul", Kind: KindFold, Fold: Mul, Associative: true},
	{Name: "max", Kind: KindFold, Fold: Max, Associative: true},
	{Name: "min", Kind: KindFold, Fold: Min, Associative: true},
	{Name: "sub", Kind: KindFold, Fold: Sub},
}

// Default holds the builtin operations.
var Default = mustRegistry(builtins...)

func mustRegistry(ops ...Op) *Registry {
	r, err := NewRegistry(ops...)
	if err != nil {
		panic(err)
	}
	return r
}

func Lookup(name string) (Op, error) {
	return Default.Lookup(name)
}

func Identity(x int32) int32 { return x }

func Double(x int32) int32 { return 2 * x }

func Negate(x int32) int32 { return -x }

// SquareOrCube squares even values and cubes odd ones.
func SquareOrCube(x int32) int32 {
	if x%2 == 0 {
		return x * x
	}
	return x * x * x
}

// Triangular is 0 + 1 + ... + (x-1), summed one term at a time so that every
// element costs O(x) work. Non-positive x gives 0.
func Triangular(x int32) int32 {
	var sum int32
	for i := int64(0); i < int64(x); i++ {
		sum += int32(i)
	}
	return sum
}

func Even(x int32) bool { return x%2 == 0 }

func Odd(x int32) bool { return x%2 != 0 }

// EvenPrefixSum keeps x when 0 + 1 + ... + (x-1) is even. The sum is built
// one term at a time, so the predicate costs O(x).
func EvenPrefixSum(x int32) bool {
	var sum int64
	for i := int64(0); i < int64(x); i++ {
		sum += i
	}
	return sum%2 == 0
}

func Add(acc, x int32) int32 { return acc + x }

func Mul(acc, x int32) int32 { return acc * x }

func Max(acc, x int32) int32 { return max(acc, x) }

func Min(acc, x int32) int32 { return min(acc, x) }

// Sub is not associative; parallel results depend on block size.
func Sub(acc, x int32) int32 { return acc - x }

