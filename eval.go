// eval.go — the recursive tree-walking evaluator.
//
// eval is one exhaustive switch over the Expr sum. Every evaluation is a
// direct recursive call that completes before returning; there is no tail
// call optimization, so each Scheme-level application grows the host stack
// by one frame. Failures are raised with fail() and unwind to the public
// entry points in interpreter.go; nothing here recovers.
package scm

import (
	"fmt"
	"io"
)

func (ip *Interpreter) eval(expr Expr, env *Env) Value {
	switch e := expr.(type) {
	case IntegerLit:
		return Int(e.N)
	case RationalLit:
		return Rat(e.Num, e.Den)
	case StringLit:
		return Str(e.S)
	case BoolLit:
		return Bool(e.B)

	case Var:
		v, ok := env.Get(e.Name)
		if !ok {
			if _, isPrim := primitives[e.Name]; isPrim {
				failf("primitive %s used as a variable without being called", e.Name)
			}
			failf("undefined variable: %s", e.Name)
		}
		return v

	case Quote:
		return syntaxToValue(e.Stx)

	case If:
		if isFalse(ip.eval(e.Cond, env)) {
			return ip.eval(e.Alter, env)
		}
		return ip.eval(e.Conseq, env)

	case Cond:
		return ip.evalCond(e, env)

	case Lambda:
		// Capture the defining environment by reference; the body is not
		// evaluated here.
		return ProcVal(&Procedure{Params: e.Params, Body: e.Body, Env: env})

	case Define:
		v := ip.eval(e.Init, env)
		env.Define(e.Name, v)
		return Void

	case Let:
		// Initializers see the outer environment only (let, not let*).
		vals := make([]Value, len(e.Binds))
		for i, b := range e.Binds {
			vals[i] = ip.eval(b.Init, env)
		}
		inner := NewEnv(env)
		for i, b := range e.Binds {
			inner.Define(b.Name, vals[i])
		}
		return ip.eval(e.Body, inner)

	case Letrec:
		// Bind every name to a placeholder first so the initializers (and
		// any closures they build) can see all the names, then backpatch
		// each cell in place once its real value exists.
		inner := NewEnv(env)
		for _, b := range e.Binds {
			inner.Define(b.Name, Null)
		}
		for _, b := range e.Binds {
			v := ip.eval(b.Init, inner)
			if err := inner.Set(b.Name, v); err != nil {
				fail(err.Error())
			}
		}
		return ip.eval(e.Body, inner)

	case Set:
		v := ip.eval(e.Init, env)
		if err := env.Set(e.Name, v); err != nil {
			fail(err.Error())
		}
		return Void

	case Begin:
		result := Void
		for _, sub := range e.Body {
			result = ip.eval(sub, env)
		}
		return result

	case MakeVoid:
		return Void
	case Exit:
		return Terminate

	case UnaryPrim:
		return ip.evalUnary(e.Op, ip.eval(e.Rand, env))

	case BinaryPrim:
		return evalBinary(e.Op, ip.eval(e.Rand1, env), ip.eval(e.Rand2, env))

	case VariadicPrim:
		// and/or control evaluation of their operands and so cannot go
		// through the evaluate-everything path.
		switch e.Op {
		case PAnd:
			return ip.evalAnd(e.Rands, env)
		case POr:
			return ip.evalOr(e.Rands, env)
		}
		args := make([]Value, len(e.Rands))
		for i, r := range e.Rands {
			args[i] = ip.eval(r, env)
		}
		return evalVariadic(e.Op, args)

	case Apply:
		return ip.evalApply(e, env)
	}
	fail("unknown expression node")
	return Value{}
}

func (ip *Interpreter) evalCond(e Cond, env *Env) Value {
	for _, clause := range e.Clauses {
		if len(clause) == 0 {
			continue
		}
		test := ip.eval(clause[0], env)
		if isFalse(test) {
			continue
		}
		if len(clause) == 1 {
			return test
		}
		result := Void
		for _, sub := range clause[1:] {
			result = ip.eval(sub, env)
		}
		return result
	}
	return Void
}

func (ip *Interpreter) evalAnd(rands []Expr, env *Env) Value {
	result := Bool(true)
	for _, r := range rands {
		result = ip.eval(r, env)
		if isFalse(result) {
			return Bool(false)
		}
	}
	return result
}

func (ip *Interpreter) evalOr(rands []Expr, env *Env) Value {
	for _, r := range rands {
		v := ip.eval(r, env)
		if !isFalse(v) {
			return v
		}
	}
	return Bool(false)
}

func (ip *Interpreter) evalApply(e Apply, env *Env) Value {
	rator := ip.eval(e.Rator, env)
	if rator.Tag != VTProc {
		fail("attempt to apply a non-procedure")
	}
	proc := rator.Data.(*Procedure)

	args := make([]Value, len(e.Rands))
	for i, r := range e.Rands {
		args[i] = ip.eval(r, env)
	}
	if len(args) != len(proc.Params) {
		failf("wrong number of arguments: expected %d, got %d", len(proc.Params), len(args))
	}

	callEnv := NewEnv(proc.Env)
	for i, p := range proc.Params {
		callEnv.Define(p, args[i])
	}
	return ip.eval(proc.Body, callEnv)
}

// syntaxToValue converts quoted syntax structurally into a runtime value
// without evaluating any of it.
func syntaxToValue(stx Syntax) Value {
	switch s := stx.(type) {
	case IntegerSyntax:
		return Int(s.N)
	case RationalSyntax:
		return Rat(s.Num, s.Den)
	case StringSyntax:
		return Str(s.S)
	case SymbolSyntax:
		return Sym(s.S)
	case BooleanSyntax:
		return Bool(s.B)
	case ListSyntax:
		result := Null
		for i := len(s.Items) - 1; i >= 0; i-- {
			result = Cons(syntaxToValue(s.Items[i]), result)
		}
		return result
	}
	fail("unknown syntax node in quote")
	return Value{}
}

func (ip *Interpreter) evalUnary(op PrimOp, rand Value) Value {
	switch op {
	case PNot:
		// Only #f negates to #t; every other value is truthy.
		return Bool(isFalse(rand))
	case PIsBoolean:
		return Bool(rand.Tag == VTBool)
	case PIsNumber:
		return Bool(rand.Tag == VTInteger)
	case PIsNull:
		return Bool(rand.Tag == VTNull)
	case PIsPair:
		return Bool(rand.Tag == VTPair)
	case PIsProcedure:
		return Bool(rand.Tag == VTProc)
	case PIsSymbol:
		return Bool(rand.Tag == VTSymbol)
	case PIsString:
		return Bool(rand.Tag == VTString)
	case PIsList:
		return Bool(isProperList(rand))
	case PCar:
		if rand.Tag != VTPair {
			fail("car requires a pair")
		}
		return rand.Data.(*Pair).Car
	case PCdr:
		if rand.Tag != VTPair {
			fail("cdr requires a pair")
		}
		return rand.Data.(*Pair).Cdr
	case PDisplay:
		return ip.display(rand)
	}
	failf("unknown unary primitive %s", op)
	return Value{}
}

func evalBinary(op PrimOp, rand1, rand2 Value) Value {
	switch op {
	case PAdd:
		return addValues(rand1, rand2)
	case PSub:
		return subtractValues(rand1, rand2)
	case PMul:
		return multiplyValues(rand1, rand2)
	case PDiv:
		return divideValues(rand1, rand2)
	case PModulo:
		return moduloValues(rand1, rand2)
	case PExpt:
		return exptValues(rand1, rand2)
	case PLess:
		return Bool(compareNumeric(rand1, rand2) < 0)
	case PLessEq:
		return Bool(compareNumeric(rand1, rand2) <= 0)
	case PNumEq:
		return Bool(compareNumeric(rand1, rand2) == 0)
	case PGreaterEq:
		return Bool(compareNumeric(rand1, rand2) >= 0)
	case PGreater:
		return Bool(compareNumeric(rand1, rand2) > 0)
	case PCons:
		return Cons(rand1, rand2)
	case PSetCar:
		if rand1.Tag != VTPair {
			fail("set-car! requires a pair")
		}
		rand1.Data.(*Pair).Car = rand2
		return Void
	case PSetCdr:
		if rand1.Tag != VTPair {
			fail("set-cdr! requires a pair")
		}
		rand1.Data.(*Pair).Cdr = rand2
		return Void
	case PIsEq:
		return Bool(eqValues(rand1, rand2))
	}
	failf("unknown binary primitive %s", op)
	return Value{}
}

func evalVariadic(op PrimOp, args []Value) Value {
	switch op {
	case PAdd:
		if len(args) == 0 {
			return Int(0)
		}
		result := args[0]
		for _, a := range args[1:] {
			result = addValues(result, a)
		}
		return result
	case PSub:
		if len(args) == 0 {
			fail("- requires at least 1 argument")
		}
		if len(args) == 1 {
			return negateValue(args[0])
		}
		result := args[0]
		for _, a := range args[1:] {
			result = subtractValues(result, a)
		}
		return result
	case PMul:
		result := Int(1)
		for _, a := range args {
			result = multiplyValues(result, a)
		}
		return result
	case PDiv:
		if len(args) == 0 {
			fail("/ requires at least 1 argument")
		}
		if len(args) == 1 {
			return reciprocalValue(args[0])
		}
		result := args[0]
		for _, a := range args[1:] {
			result = divideValues(result, a)
		}
		return result

	case PLess, PLessEq, PNumEq, PGreaterEq, PGreater:
		if len(args) < 2 {
			failf("%s requires at least 2 arguments", op)
		}
		for i := 0; i+1 < len(args); i++ {
			c := compareNumeric(args[i], args[i+1])
			ok := false
			switch op {
			case PLess:
				ok = c < 0
			case PLessEq:
				ok = c <= 0
			case PNumEq:
				ok = c == 0
			case PGreaterEq:
				ok = c >= 0
			case PGreater:
				ok = c > 0
			}
			if !ok {
				return Bool(false)
			}
		}
		return Bool(true)

	case PList:
		result := Null
		for i := len(args) - 1; i >= 0; i-- {
			result = Cons(args[i], result)
		}
		return result
	}
	failf("unknown variadic primitive %s", op)
	return Value{}
}

// eqValues implements eq?: value comparison for integers, booleans and
// symbols; Null/Void compare equal to themselves; pairs, procedures, strings
// and rationals compare by storage identity, never by contents.
func eqValues(v1, v2 Value) bool {
	if v1.Tag != v2.Tag {
		return false
	}
	switch v1.Tag {
	case VTInteger:
		return v1.Data.(int64) == v2.Data.(int64)
	case VTBool:
		return v1.Data.(bool) == v2.Data.(bool)
	case VTSymbol:
		return v1.Data.(string) == v2.Data.(string)
	case VTNull, VTVoid, VTTerminate:
		return true
	case VTPair:
		return v1.Data.(*Pair) == v2.Data.(*Pair)
	case VTProc:
		return v1.Data.(*Procedure) == v2.Data.(*Procedure)
	case VTString:
		return v1.Data.(*string) == v2.Data.(*string)
	case VTRational:
		return v1.Data.(*Rational) == v2.Data.(*Rational)
	}
	return false
}

// isProperList walks the cdr chain checking for a Null-terminated tail.
// A cyclic structure will keep it walking; callers accept that.
func isProperList(v Value) bool {
	for v.Tag == VTPair {
		v = v.Data.(*Pair).Cdr
	}
	return v.Tag == VTNull
}

func (ip *Interpreter) display(v Value) Value {
	out := ip.Stdout
	if out == nil {
		out = io.Discard
	}
	if v.Tag == VTString {
		fmt.Fprint(out, strVal(v))
	} else {
		fmt.Fprint(out, FormatValue(v))
	}
	return Void
}
