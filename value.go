package scm

// ValueTag enumerates all runtime kinds a Value may hold. The tag determines
// the dynamic type of Value.Data: int64 for VTInteger, string for VTSymbol,
// bool for VTBool, *Rational and *string boxes for VTRational and VTString,
// *Pair for VTPair, *Procedure for VTProc, and nil for VTNull, VTVoid and
// VTTerminate.
type ValueTag int

const (
	VTNull ValueTag = iota
	VTInteger
	VTRational
	VTString
	VTSymbol
	VTBool
	VTPair
	VTProc
	VTVoid
	VTTerminate
)

// Value is the universal runtime carrier used by the evaluator.
//
// Fields:
//   - Tag  — discriminant indicating which case is active.
//   - Data — Go value appropriate for Tag (e.g. int64 for VTInteger,
//     *Pair for VTPair).
//
// Invariants:
//   - When Tag is VTNull, VTVoid or VTTerminate, Data is nil.
//   - When Tag is VTPair, Data is a *Pair; the cell is shared by every
//     Value holding it, so set-car!/set-cdr! mutations are visible to all
//     holders. This is required Scheme aliasing semantics.
//   - When Tag is VTString or VTRational, Data is a box (*string,
//     *Rational) allocated once per constructed value and shared by
//     copies, so eq? can compare storage identity rather than contents.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders the value in read-back syntax (see printer.go).
func (v Value) String() string { return FormatValue(v) }

// Rational is an exact fraction. It is NOT kept in lowest terms: each
// arithmetic operation stores whatever numerator/denominator its formula
// produced (only integer division's exact case collapses back to VTInteger).
type Rational struct {
	Num int64
	Den int64
}

// Pair is the one mutable, shareable runtime structure. Car/Cdr hold Values
// by reference semantics through the shared *Pair, which permits cyclic
// structures via set-car!/set-cdr!.
type Pair struct {
	Car Value
	Cdr Value
}

// Procedure is a closure: parameter names, a compiled body, and the defining
// environment captured by reference (lexical scoping). The body Expr is
// shared by every Procedure created from the same lambda.
type Procedure struct {
	Params []string
	Body   Expr
	Env    *Env
}

// Singleton payload-free values.
var (
	Null      = Value{Tag: VTNull}
	Void      = Value{Tag: VTVoid}
	Terminate = Value{Tag: VTTerminate}
)

// Primitive constructors for convenience. Str and Rat allocate a fresh box,
// so each constructed string or rational is a distinct eq? identity.
func Int(n int64) Value { return Value{Tag: VTInteger, Data: n} }

func Rat(num, den int64) Value {
	r := Rational{Num: num, Den: den}
	return Value{Tag: VTRational, Data: &r}
}

func Str(s string) Value { return Value{Tag: VTString, Data: &s} }

func Sym(s string) Value { return Value{Tag: VTSymbol, Data: s} }

func Bool(b bool) Value { return Value{Tag: VTBool, Data: b} }

func Cons(car, cdr Value) Value { return Value{Tag: VTPair, Data: &Pair{Car: car, Cdr: cdr}} }

func ProcVal(p *Procedure) Value { return Value{Tag: VTProc, Data: p} }

// strVal and ratVal read the boxed payloads; the box pointer itself is what
// eq? compares.
func strVal(v Value) string { return *v.Data.(*string) }

func ratVal(v Value) Rational { return *v.Data.(*Rational) }

// isFalse implements Scheme truthiness: only the boolean #f counts as false.
func isFalse(v Value) bool {
	return v.Tag == VTBool && !v.Data.(bool)
}
