// expr.go — the executable expression tree produced by the compiler in
// parse.go and consumed by the evaluator in eval.go.
//
// Every Expr is fully resolved at parse time: special-form shapes and the
// arity of fixed-arity primitives are checked by the compiler, so the
// evaluator only re-validates what cannot be known statically (minimum arity
// of variadic primitives and user procedure arity).
package scm

// Expr is the closed sum of executable node kinds.
type Expr interface{ exprNode() }

// Literals.
type IntegerLit struct{ N int64 }

type RationalLit struct{ Num, Den int64 }

type StringLit struct{ S string }

type BoolLit struct{ B bool }

// Var is a variable reference resolved against the environment chain at
// evaluation time.
type Var struct{ Name string }

// Quote carries its operand as unevaluated Syntax; evaluation converts it
// structurally into a Value.
type Quote struct{ Stx Syntax }

type If struct {
	Cond   Expr
	Conseq Expr
	Alter  Expr
}

// Cond holds clauses as parsed expression sequences: clause[0] is the test,
// the rest (possibly empty) is the body.
type Cond struct{ Clauses [][]Expr }

type Lambda struct {
	Params []string
	Body   Expr
}

type Define struct {
	Name string
	Init Expr
}

// Binding is one (name init) pair of a let/letrec form.
type Binding struct {
	Name string
	Init Expr
}

type Let struct {
	Binds []Binding
	Body  Expr
}

type Letrec struct {
	Binds []Binding
	Body  Expr
}

type Set struct {
	Name string
	Init Expr
}

type Begin struct{ Body []Expr }

type MakeVoid struct{}

type Exit struct{}

// PrimOp identifies a built-in operator. Primitives are parse-time
// expression nodes, not procedure values: the compiler resolves the operator
// name and arity and emits a Unary/Binary/VariadicPrim node directly.
type PrimOp int

const (
	PAdd PrimOp = iota
	PSub
	PMul
	PDiv
	PModulo
	PExpt
	PLess
	PLessEq
	PNumEq
	PGreaterEq
	PGreater
	PAnd
	POr
	PNot
	PCons
	PCar
	PCdr
	PSetCar
	PSetCdr
	PList
	PIsEq
	PIsBoolean
	PIsNumber
	PIsNull
	PIsPair
	PIsProcedure
	PIsSymbol
	PIsString
	PIsList
	PDisplay
)

var primOpNames = map[PrimOp]string{
	PAdd:         "+",
	PSub:         "-",
	PMul:         "*",
	PDiv:         "/",
	PModulo:      "modulo",
	PExpt:        "expt",
	PLess:        "<",
	PLessEq:      "<=",
	PNumEq:       "=",
	PGreaterEq:   ">=",
	PGreater:     ">",
	PAnd:         "and",
	POr:          "or",
	PNot:         "not",
	PCons:        "cons",
	PCar:         "car",
	PCdr:         "cdr",
	PSetCar:      "set-car!",
	PSetCdr:      "set-cdr!",
	PList:        "list",
	PIsEq:        "eq?",
	PIsBoolean:   "boolean?",
	PIsNumber:    "number?",
	PIsNull:      "null?",
	PIsPair:      "pair?",
	PIsProcedure: "procedure?",
	PIsSymbol:    "symbol?",
	PIsString:    "string?",
	PIsList:      "list?",
	PDisplay:     "display",
}

func (op PrimOp) String() string { return primOpNames[op] }

// UnaryPrim is a fixed-arity primitive of one operand.
type UnaryPrim struct {
	Op   PrimOp
	Rand Expr
}

// BinaryPrim is a fixed-arity primitive of two operands; for the arithmetic
// and comparison operators it is the exactly-two fast path.
type BinaryPrim struct {
	Op    PrimOp
	Rand1 Expr
	Rand2 Expr
}

// VariadicPrim takes any number of operands; minimum arity (where one
// applies) is validated at evaluation time.
type VariadicPrim struct {
	Op    PrimOp
	Rands []Expr
}

// Apply is a procedure application: operator expression plus operands.
type Apply struct {
	Rator Expr
	Rands []Expr
}

func (IntegerLit) exprNode()   {}
func (RationalLit) exprNode()  {}
func (StringLit) exprNode()    {}
func (BoolLit) exprNode()      {}
func (Var) exprNode()          {}
func (Quote) exprNode()        {}
func (If) exprNode()           {}
func (Cond) exprNode()         {}
func (Lambda) exprNode()       {}
func (Define) exprNode()       {}
func (Let) exprNode()          {}
func (Letrec) exprNode()       {}
func (Set) exprNode()          {}
func (Begin) exprNode()        {}
func (MakeVoid) exprNode()     {}
func (Exit) exprNode()         {}
func (UnaryPrim) exprNode()    {}
func (BinaryPrim) exprNode()   {}
func (VariadicPrim) exprNode() {}
func (Apply) exprNode()        {}
