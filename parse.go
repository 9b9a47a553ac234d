// parse.go — the environment-sensitive compiler from Syntax to Expr.
//
// A list form (head rest...) is resolved in this order:
//
//  1. head is not a bare symbol → application of the compiled head.
//  2. head is bound in the environment → ordinary variable, application.
//     Bindings shadow primitives and reserved words of the same name.
//  3. head names a primitive → dedicated primitive node, fixed arities
//     checked here, never at evaluation time.
//  4. head names a reserved word → special form with a fixed shape.
//  5. otherwise → application of a variable reference. The name may be bound
//     later (a define compiled before its recursive use), so resolution is
//     deferred to evaluation.
//
// All failures raise the engine's fail() signal; the public wrappers in
// interpreter.go surface them as *RuntimeError.
package scm

// primForm describes how a primitive's operand count maps to node shapes:
// nullary, unary and binary are exact counts, variadic accepts any count,
// and binOrVar takes the binary fast path at exactly two operands.
type primForm int

const (
	formNullary primForm = iota
	formUnary
	formBinary
	formVariadic
	formBinOrVar
)

type primSpec struct {
	op   PrimOp
	form primForm
}

// Table-only markers: (void) and (exit) compile to their own node kinds, so
// these ops never appear inside a primitive node.
const (
	primVoid PrimOp = -1 - iota
	primExit
)

// primitives is the authoritative operator table for compiler dispatch.
var primitives = map[string]primSpec{
	"+": {PAdd, formBinOrVar},
	"-": {PSub, formBinOrVar},
	"*": {PMul, formBinOrVar},
	"/": {PDiv, formBinOrVar},

	"<":  {PLess, formBinOrVar},
	"<=": {PLessEq, formBinOrVar},
	"=":  {PNumEq, formBinOrVar},
	">=": {PGreaterEq, formBinOrVar},
	">":  {PGreater, formBinOrVar},

	"modulo":   {PModulo, formBinary},
	"expt":     {PExpt, formBinary},
	"cons":     {PCons, formBinary},
	"set-car!": {PSetCar, formBinary},
	"set-cdr!": {PSetCdr, formBinary},
	"eq?":      {PIsEq, formBinary},

	"not":        {PNot, formUnary},
	"boolean?":   {PIsBoolean, formUnary},
	"number?":    {PIsNumber, formUnary},
	"null?":      {PIsNull, formUnary},
	"pair?":      {PIsPair, formUnary},
	"procedure?": {PIsProcedure, formUnary},
	"symbol?":    {PIsSymbol, formUnary},
	"string?":    {PIsString, formUnary},
	"list?":      {PIsList, formUnary},
	"car":        {PCar, formUnary},
	"cdr":        {PCdr, formUnary},
	"display":    {PDisplay, formUnary},

	"list": {PList, formVariadic},
	"and":  {PAnd, formVariadic},
	"or":   {POr, formVariadic},

	"void": {primVoid, formNullary},
	"exit": {primExit, formNullary},
}

// reservedWords are the special forms with fixed, non-evaluated shapes.
var reservedWords = map[string]bool{
	"quote":  true,
	"if":     true,
	"cond":   true,
	"lambda": true,
	"define": true,
	"let":    true,
	"letrec": true,
	"set!":   true,
	"begin":  true,
}

// parseSyntax compiles one form. It panics with the engine's rtErr signal on
// malformed input; callers outside the engine go through Interpreter.Parse.
func parseSyntax(stx Syntax, env *Env) Expr {
	switch s := stx.(type) {
	case IntegerSyntax:
		return IntegerLit{N: s.N}
	case RationalSyntax:
		return RationalLit{Num: s.Num, Den: s.Den}
	case StringSyntax:
		return StringLit{S: s.S}
	case BooleanSyntax:
		return BoolLit{B: s.B}
	case SymbolSyntax:
		return Var{Name: s.S}
	case ListSyntax:
		return parseList(s, env)
	default:
		fail("unknown syntax node")
		return nil
	}
}

func parseList(s ListSyntax, env *Env) Expr {
	if len(s.Items) == 0 {
		// () is self-quoting: it compiles to (quote ()).
		return Quote{Stx: ListSyntax{}}
	}

	head, isSym := s.Items[0].(SymbolSyntax)
	if !isSym {
		return Apply{Rator: parseSyntax(s.Items[0], env), Rands: parseRest(s, env)}
	}

	op := head.S
	if _, bound := env.Get(op); bound {
		return Apply{Rator: Var{Name: op}, Rands: parseRest(s, env)}
	}
	if spec, ok := primitives[op]; ok {
		return parsePrimitive(op, spec, parseRest(s, env))
	}
	if reservedWords[op] {
		return parseReserved(op, s, env)
	}
	// Unknown head: compile as an application anyway. The name may be bound
	// by the time this expression runs (recursive defines); if not, the
	// evaluator reports the undefined variable.
	return Apply{Rator: Var{Name: op}, Rands: parseRest(s, env)}
}

func parseRest(s ListSyntax, env *Env) []Expr {
	rands := make([]Expr, 0, len(s.Items)-1)
	for _, item := range s.Items[1:] {
		rands = append(rands, parseSyntax(item, env))
	}
	return rands
}

func parsePrimitive(name string, spec primSpec, rands []Expr) Expr {
	switch spec.form {
	case formNullary:
		if len(rands) != 0 {
			failf("wrong number of arguments for (%s)", name)
		}
		if spec.op == primExit {
			return Exit{}
		}
		return MakeVoid{}
	case formUnary:
		if len(rands) != 1 {
			failf("wrong number of arguments for %s", name)
		}
		return UnaryPrim{Op: spec.op, Rand: rands[0]}
	case formBinary:
		if len(rands) != 2 {
			failf("wrong number of arguments for %s", name)
		}
		return BinaryPrim{Op: spec.op, Rand1: rands[0], Rand2: rands[1]}
	case formVariadic:
		return VariadicPrim{Op: spec.op, Rands: rands}
	case formBinOrVar:
		if len(rands) == 2 {
			return BinaryPrim{Op: spec.op, Rand1: rands[0], Rand2: rands[1]}
		}
		return VariadicPrim{Op: spec.op, Rands: rands}
	}
	failf("unknown primitive: %s", name)
	return nil
}

func parseReserved(op string, s ListSyntax, env *Env) Expr {
	args := s.Items[1:]
	switch op {
	case "quote":
		if len(args) != 1 {
			fail("wrong number of arguments for quote")
		}
		return Quote{Stx: args[0]}

	case "if":
		if len(args) != 3 {
			fail("wrong number of arguments for if")
		}
		return If{
			Cond:   parseSyntax(args[0], env),
			Conseq: parseSyntax(args[1], env),
			Alter:  parseSyntax(args[2], env),
		}

	case "cond":
		clauses := make([][]Expr, 0, len(args))
		for _, c := range args {
			clauseList, ok := c.(ListSyntax)
			if !ok {
				fail("cond clause must be a list")
			}
			clause := make([]Expr, 0, len(clauseList.Items))
			for _, item := range clauseList.Items {
				clause = append(clause, parseSyntax(item, env))
			}
			clauses = append(clauses, clause)
		}
		return Cond{Clauses: clauses}

	case "lambda":
		if len(args) != 2 {
			fail("wrong number of arguments for lambda")
		}
		return Lambda{
			Params: parseParams(args[0], "lambda parameters"),
			Body:   parseSyntax(args[1], env),
		}

	case "define":
		if len(args) != 2 {
			fail("wrong number of arguments for define")
		}
		if name, ok := args[0].(SymbolSyntax); ok {
			return Define{Name: name.S, Init: parseSyntax(args[1], env)}
		}
		// (define (f params...) body) desugars to (define f (lambda ...)).
		sig, ok := args[0].(ListSyntax)
		if !ok || len(sig.Items) == 0 {
			fail("invalid define syntax")
		}
		fname, ok := sig.Items[0].(SymbolSyntax)
		if !ok {
			fail("define target must be a symbol")
		}
		lam := Lambda{
			Params: parseParams(ListSyntax{Items: sig.Items[1:]}, "define parameters"),
			Body:   parseSyntax(args[1], env),
		}
		return Define{Name: fname.S, Init: lam}

	case "let", "letrec":
		if len(args) != 2 {
			failf("wrong number of arguments for %s", op)
		}
		binds := parseBindings(args[0], op, env)
		body := parseSyntax(args[1], env)
		if op == "let" {
			return Let{Binds: binds, Body: body}
		}
		return Letrec{Binds: binds, Body: body}

	case "set!":
		if len(args) != 2 {
			fail("wrong number of arguments for set!")
		}
		target, ok := args[0].(SymbolSyntax)
		if !ok {
			fail("set! target must be a symbol")
		}
		return Set{Name: target.S, Init: parseSyntax(args[1], env)}

	case "begin":
		body := make([]Expr, 0, len(args))
		for _, a := range args {
			body = append(body, parseSyntax(a, env))
		}
		return Begin{Body: body}
	}
	failf("unknown reserved word: %s", op)
	return nil
}

func parseParams(stx Syntax, what string) []string {
	list, ok := stx.(ListSyntax)
	if !ok {
		failf("%s must be a list", what)
	}
	params := make([]string, 0, len(list.Items))
	for _, p := range list.Items {
		sym, ok := p.(SymbolSyntax)
		if !ok {
			failf("%s must be symbols", what)
		}
		params = append(params, sym.S)
	}
	return params
}

func parseBindings(stx Syntax, op string, env *Env) []Binding {
	list, ok := stx.(ListSyntax)
	if !ok {
		failf("%s bindings must be a list", op)
	}
	binds := make([]Binding, 0, len(list.Items))
	for _, b := range list.Items {
		pair, ok := b.(ListSyntax)
		if !ok || len(pair.Items) != 2 {
			fail("each binding must be a list of 2 elements")
		}
		name, ok := pair.Items[0].(SymbolSyntax)
		if !ok {
			fail("binding variable must be a symbol")
		}
		// Binding initializers are compiled in the enclosing environment;
		// visibility of the bound names is an evaluation-time concern
		// (let vs letrec).
		binds = append(binds, Binding{Name: name.S, Init: parseSyntax(pair.Items[1], env)})
	}
	return binds
}
