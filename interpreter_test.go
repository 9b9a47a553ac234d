package scm

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

func mustEvalPersistent(t *testing.T, ip *Interpreter, src string) Value {
	t.Helper()
	v, err := ip.EvalPersistentSource(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return v
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInteger || v.Data.(int64) != n {
		t.Fatalf("want integer %d, got %#v", n, v)
	}
}

func wantRat(t *testing.T, v Value, num, den int64) {
	t.Helper()
	if v.Tag != VTRational {
		t.Fatalf("want rational %d/%d, got %#v", num, den, v)
	}
	r := ratVal(v)
	if r.Num != num || r.Den != den {
		t.Fatalf("want rational %d/%d (unreduced), got %d/%d", num, den, r.Num, r.Den)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTString || strVal(v) != s {
		t.Fatalf("want string %q, got %#v", s, v)
	}
}

func wantVoid(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTVoid {
		t.Fatalf("want void, got %#v", v)
	}
}

func wantEvalError(t *testing.T, src, substr string) {
	t.Helper()
	_, err := NewInterpreter().EvalSource(src)
	if err == nil {
		t.Fatalf("want error containing %q for %q, got none", substr, src)
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("want error containing %q, got %q", substr, err.Error())
	}
}

// --- arithmetic --------------------------------------------------------------

func Test_Eval_Integer_Arithmetic(t *testing.T) {
	wantInt(t, evalSrc(t, "(+ 1 (* 2 3))"), 7)
	wantInt(t, evalSrc(t, "(- 10 1 2)"), 7)
	wantInt(t, evalSrc(t, "(- 5)"), -5)
	wantInt(t, evalSrc(t, "(+)"), 0)
	wantInt(t, evalSrc(t, "(*)"), 1)
	wantInt(t, evalSrc(t, "(modulo 7 3)"), 1)
	wantInt(t, evalSrc(t, "(modulo -7 3)"), -1)
}

func Test_Eval_Division_Collapses_Only_When_Exact(t *testing.T) {
	wantInt(t, evalSrc(t, "(/ 6 3)"), 2)
	wantInt(t, evalSrc(t, "(/ -6 3)"), -2)
	wantRat(t, evalSrc(t, "(/ 1 2)"), 1, 2)
	// Inexact quotients keep the operands verbatim: 10/4 is not reduced.
	wantRat(t, evalSrc(t, "(/ 10 4)"), 10, 4)
	wantRat(t, evalSrc(t, "(/ 2)"), 1, 2)
	wantRat(t, evalSrc(t, "(/ 1/2)"), 2, 1)
}

func Test_Eval_Rational_Arithmetic_Stays_Unreduced(t *testing.T) {
	wantRat(t, evalSrc(t, "(+ 1/2 1/3)"), 5, 6)
	wantRat(t, evalSrc(t, "(+ 1/2 1/2)"), 4, 4)
	wantRat(t, evalSrc(t, "(* 1/2 1/3)"), 1, 6)
	wantRat(t, evalSrc(t, "(/ 1/2 1/3)"), 3, 2)
	// Mixed integer and rational keep the rational's denominator.
	wantRat(t, evalSrc(t, "(+ 1 1/2)"), 3, 2)
	wantRat(t, evalSrc(t, "(+ 1/2 1)"), 3, 2)
	wantRat(t, evalSrc(t, "(- 1 1/4)"), 3, 4)
	wantRat(t, evalSrc(t, "(- 1/4 1)"), -3, 4)
	wantRat(t, evalSrc(t, "(* 2 1/4)"), 2, 4)
	wantRat(t, evalSrc(t, "(* 1/4 2)"), 2, 4)
	wantRat(t, evalSrc(t, "(/ 2 1/3)"), 6, 1)
	wantRat(t, evalSrc(t, "(/ 1/3 2)"), 1, 6)
}

func Test_Eval_Division_By_Zero(t *testing.T) {
	wantEvalError(t, "(/ 1 0)", "division by zero")
	wantEvalError(t, "(/ 1/2 0/5)", "division by zero")
	wantEvalError(t, "(/ 0)", "division by zero")
	wantEvalError(t, "(modulo 5 0)", "division by zero")
}

func Test_Eval_Arithmetic_Rejects_NonNumbers(t *testing.T) {
	wantEvalError(t, `(+ 1 "2")`, "cannot add non-numeric values")
	wantEvalError(t, "(- 'a)", "cannot negate non-numeric value")
	wantEvalError(t, "(< 1 #t)", "cannot compare non-numeric values")
}

func Test_Eval_Expt(t *testing.T) {
	wantInt(t, evalSrc(t, "(expt 2 10)"), 1024)
	wantInt(t, evalSrc(t, "(expt 5 0)"), 1)
	wantInt(t, evalSrc(t, "(expt 0 3)"), 0)
	wantInt(t, evalSrc(t, "(expt -3 3)"), -27)
	wantInt(t, evalSrc(t, "(expt 2 62)"), 1<<62)
	wantEvalError(t, "(expt 2 63)", "integer overflow")
	wantEvalError(t, "(expt 2 -1)", "negative exponent")
	wantEvalError(t, "(expt 0 0)", "0^0 is undefined")
	wantEvalError(t, "(expt 1/2 2)", "only defined for integers")
}

func Test_Eval_Comparisons_CrossMultiply(t *testing.T) {
	wantBool(t, evalSrc(t, "(< 1 2)"), true)
	wantBool(t, evalSrc(t, "(< 1/3 1/2)"), true)
	wantBool(t, evalSrc(t, "(< 1/2 1/3)"), false)
	// Unreduced rationals still compare by value.
	wantBool(t, evalSrc(t, "(= 1/2 2/4)"), true)
	wantBool(t, evalSrc(t, "(= 3/3 1)"), true)
	wantBool(t, evalSrc(t, "(>= 5/2 2)"), true)
	wantBool(t, evalSrc(t, "(<= 2 5/2)"), true)
}

func Test_Eval_Comparisons_Variadic_Chain(t *testing.T) {
	wantBool(t, evalSrc(t, "(< 1 2 3 4)"), true)
	wantBool(t, evalSrc(t, "(< 1 3 2)"), false)
	wantBool(t, evalSrc(t, "(= 2 2 2)"), true)
	wantBool(t, evalSrc(t, "(> 3 2 1)"), true)
	wantEvalError(t, "(< 1)", "requires at least 2 arguments")
	wantEvalError(t, "(=)", "requires at least 2 arguments")
}

// --- booleans and control ------------------------------------------------------

func Test_Eval_Only_False_Is_Falsy(t *testing.T) {
	wantInt(t, evalSrc(t, "(if 0 1 2)"), 1)
	wantInt(t, evalSrc(t, `(if "" 1 2)`), 1)
	wantInt(t, evalSrc(t, "(if '() 1 2)"), 1)
	wantInt(t, evalSrc(t, "(if #f 1 2)"), 2)
	wantBool(t, evalSrc(t, "(not #f)"), true)
	wantBool(t, evalSrc(t, "(not 0)"), false)
	wantBool(t, evalSrc(t, "(not '())"), false)
}

func Test_Eval_And_Or_ShortCircuit(t *testing.T) {
	wantBool(t, evalSrc(t, "(and)"), true)
	wantInt(t, evalSrc(t, "(and 1 2)"), 2)
	wantBool(t, evalSrc(t, "(and #f (car '()))"), false)
	wantBool(t, evalSrc(t, "(or)"), false)
	wantInt(t, evalSrc(t, "(or #f 5)"), 5)
	wantInt(t, evalSrc(t, "(or 1 (car '()))"), 1)
	wantBool(t, evalSrc(t, "(or #f #f)"), false)
}

func Test_Eval_Cond_Else_Is_Not_Special(t *testing.T) {
	// else is an ordinary variable; unless bound it is simply undefined.
	wantEvalError(t, "(cond (else 1))", "undefined variable: else")
	wantInt(t, evalSrc(t, "(cond ((= 1 2) 10) (#t 20))"), 20)
}

func Test_Eval_Cond_Clause_Shapes(t *testing.T) {
	// A one-element clause yields its test value.
	wantInt(t, evalSrc(t, "(cond (#f) (7))"), 7)
	// A multi-element body evaluates in order and yields the last value.
	wantInt(t, evalSrc(t, "(cond (#t 1 2 3))"), 3)
	// No clause matches: void.
	wantVoid(t, evalSrc(t, "(cond (#f 1) (#f 2))"))
	wantVoid(t, evalSrc(t, "(cond)"))
}

func Test_Eval_Begin(t *testing.T) {
	wantVoid(t, evalSrc(t, "(begin)"))
	wantInt(t, evalSrc(t, "(begin 1 2 3)"), 3)
	wantInt(t, evalSrc(t, "(begin (define x 1) (set! x 41) (+ x 1))"), 42)
}

// --- quote and lists ----------------------------------------------------------

func Test_Eval_Quote_Builds_Values_Structurally(t *testing.T) {
	wantInt(t, evalSrc(t, "(car '(1 2 3))"), 1)
	wantInt(t, evalSrc(t, "(car (cdr '(1 2 3)))"), 2)
	wantBool(t, evalSrc(t, "(null? '())"), true)
	wantBool(t, evalSrc(t, "(null? (cdr '(1)))"), true)
	if got := evalSrc(t, `'(1 (2) "s")`).String(); got != `(1 (2) "s")` {
		t.Fatalf("quote round-trip: %q", got)
	}
	if got := evalSrc(t, "''x").String(); got != "(quote x)" {
		t.Fatalf("nested quote: %q", got)
	}
}

func Test_Eval_EmptyList_Evaluates_To_Null(t *testing.T) {
	v := evalSrc(t, "()")
	if v.Tag != VTNull {
		t.Fatalf("want null, got %#v", v)
	}
	wantBool(t, evalSrc(t, "(null? ())"), true)
}

func Test_Eval_List_And_ListPredicate(t *testing.T) {
	if got := evalSrc(t, "(list 1 (+ 1 1) 'three)").String(); got != "(1 2 three)" {
		t.Fatalf("list: %q", got)
	}
	v := evalSrc(t, "(list)")
	if v.Tag != VTNull {
		t.Fatalf("(list) should be null, got %#v", v)
	}
	wantBool(t, evalSrc(t, "(list? '(1 2))"), true)
	wantBool(t, evalSrc(t, "(list? '())"), true)
	wantBool(t, evalSrc(t, "(list? (cons 1 2))"), false)
	wantBool(t, evalSrc(t, "(list? 5)"), false)
}

func Test_Eval_Pairs_Are_Shared_Mutable_Cells(t *testing.T) {
	// q aliases p's cell, so mutation through p is visible through q.
	wantInt(t, evalSrc(t, `
		(define p (cons 1 2))
		(define q p)
		(set-car! p 99)
		(car q)`), 99)
	wantInt(t, evalSrc(t, `
		(define p (cons 1 2))
		(set-cdr! p (cons 3 '()))
		(car (cdr p))`), 3)
	wantEvalError(t, "(set-car! 1 2)", "set-car! requires a pair")
	wantEvalError(t, "(set-cdr! '() 2)", "set-cdr! requires a pair")
}

func Test_Eval_Car_Cdr_Require_Pairs(t *testing.T) {
	wantEvalError(t, "(car '())", "car requires a pair")
	wantEvalError(t, "(cdr 5)", "cdr requires a pair")
}

func Test_Eval_Eq_Identity_Semantics(t *testing.T) {
	wantBool(t, evalSrc(t, "(eq? 1 1)"), true)
	wantBool(t, evalSrc(t, "(eq? 1 2)"), false)
	wantBool(t, evalSrc(t, "(eq? 'a 'a)"), true)
	wantBool(t, evalSrc(t, "(eq? 'a 'b)"), false)
	wantBool(t, evalSrc(t, "(eq? #t #t)"), true)
	wantBool(t, evalSrc(t, "(eq? '() '())"), true)
	wantBool(t, evalSrc(t, "(eq? 1 'a)"), false)
	// Pairs compare by cell identity, never structurally.
	wantBool(t, evalSrc(t, "(eq? (cons 1 2) (cons 1 2))"), false)
	wantBool(t, evalSrc(t, "(define p (cons 1 2)) (eq? p p)"), true)
	wantBool(t, evalSrc(t, "(define f (lambda (x) x)) (eq? f f)"), true)
	wantBool(t, evalSrc(t, "(eq? (lambda (x) x) (lambda (x) x))"), false)
}

func Test_Eval_Eq_Strings_And_Rationals_By_Storage(t *testing.T) {
	// Two separately constructed equal strings are distinct storage; two
	// reads of one binding are the same storage.
	wantBool(t, evalSrc(t, `(eq? "a" "a")`), false)
	wantBool(t, evalSrc(t, `(define s "a") (eq? s s)`), true)
	wantBool(t, evalSrc(t, "(eq? 1/2 1/2)"), false)
	wantBool(t, evalSrc(t, "(define r 1/2) (eq? r r)"), true)
	// Arithmetic always allocates a fresh result.
	wantBool(t, evalSrc(t, "(define r 1/2) (eq? r (+ 0 r))"), false)
}

func Test_Eval_Type_Predicates(t *testing.T) {
	wantBool(t, evalSrc(t, "(number? 1)"), true)
	// number? recognizes machine integers only.
	wantBool(t, evalSrc(t, "(number? 1/2)"), false)
	wantBool(t, evalSrc(t, "(number? #t)"), false)
	wantBool(t, evalSrc(t, "(boolean? #f)"), true)
	wantBool(t, evalSrc(t, "(boolean? 0)"), false)
	wantBool(t, evalSrc(t, "(symbol? 'a)"), true)
	wantBool(t, evalSrc(t, `(symbol? "a")`), false)
	wantBool(t, evalSrc(t, `(string? "a")`), true)
	wantBool(t, evalSrc(t, "(pair? (cons 1 2))"), true)
	wantBool(t, evalSrc(t, "(pair? '())"), false)
	wantBool(t, evalSrc(t, "(procedure? (lambda (x) x))"), true)
	wantBool(t, evalSrc(t, "(procedure? 'car)"), false)
}

// --- binding forms --------------------------------------------------------------

func Test_Eval_Define_And_Redefine(t *testing.T) {
	ip := NewInterpreter()
	wantVoid(t, mustEvalPersistent(t, ip, "(define x 10)"))
	wantInt(t, mustEvalPersistent(t, ip, "x"), 10)
	// Redefinition overwrites in place.
	mustEvalPersistent(t, ip, "(define x 20)")
	wantInt(t, mustEvalPersistent(t, ip, "x"), 20)
}

func Test_Eval_Set_Requires_Existing_Binding(t *testing.T) {
	wantEvalError(t, "(set! nope 1)", "undefined variable: nope")
	wantInt(t, evalSrc(t, "(define x 1) (set! x 2) x"), 2)
}

func Test_Eval_Closures_Capture_By_Reference(t *testing.T) {
	// A closure sees later assignments to the captured variable, not a
	// snapshot of its value at capture time.
	wantInt(t, evalSrc(t, `
		(define x 1)
		(define (get) x)
		(set! x 2)
		(get)`), 2)
}

func Test_Eval_Let_Initializers_See_Outer_Scope(t *testing.T) {
	wantInt(t, evalSrc(t, "(let ((x 2) (y 3)) (+ x y))"), 5)
	// y's initializer must see the outer x, not the new binding.
	wantInt(t, evalSrc(t, `
		(define x 1)
		(let ((x 10) (y x)) y)`), 1)
	// The let frame does not leak.
	wantInt(t, evalSrc(t, `
		(define x 1)
		(let ((x 10)) x)
		x`), 1)
}

func Test_Eval_Letrec_Mutual_Recursion(t *testing.T) {
	wantBool(t, evalSrc(t, `
		(letrec ((even? (lambda (n) (if (= n 0) #t (odd? (- n 1)))))
		         (odd?  (lambda (n) (if (= n 0) #f (even? (- n 1))))))
		  (even? 10))`), true)
	wantInt(t, evalSrc(t, `
		(letrec ((f (lambda (n) (if (= n 0) 1 (* n (f (- n 1)))))))
		  (f 5))`), 120)
}

func Test_Eval_Define_Supports_Recursion(t *testing.T) {
	wantInt(t, evalSrc(t, `
		(define (fact n)
		  (if (= n 0) 1 (* n (fact (- n 1)))))
		(fact 5)`), 120)
}

func Test_Eval_Shadowing_Primitive_With_Define(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define car (lambda (x) 42))")
	wantInt(t, mustEvalPersistent(t, ip, "(car '(1 2))"), 42)
}

// --- application ------------------------------------------------------------------

func Test_Eval_Application_Arity_And_Type(t *testing.T) {
	wantInt(t, evalSrc(t, "((lambda (x y) (+ x y)) 2 3)"), 5)
	wantEvalError(t, "((lambda (x) x) 1 2)", "wrong number of arguments: expected 1, got 2")
	wantEvalError(t, "((lambda (x y) x) 1)", "wrong number of arguments: expected 2, got 1")
	wantEvalError(t, "(1 2)", "attempt to apply a non-procedure")
	wantEvalError(t, `("f" 1)`, "attempt to apply a non-procedure")
}

func Test_Eval_Undefined_Variable(t *testing.T) {
	wantEvalError(t, "nope", "undefined variable: nope")
	wantEvalError(t, "(nope 1)", "undefined variable: nope")
}

// --- display -----------------------------------------------------------------------

func Test_Eval_Display_Writes_To_Configured_Sink(t *testing.T) {
	var out strings.Builder
	ip := NewInterpreter()
	ip.Stdout = &out
	wantVoid(t, mustEvalPersistent(t, ip, `(display "hi ") (display '(1 2)) (display 1/2)`))
	if got := out.String(); got != "hi (1 2)1/2" {
		t.Fatalf("display output: %q", got)
	}
}

// --- driver surface ------------------------------------------------------------------

func Test_Eval_Exit_Yields_Terminate_And_Stops_The_Run(t *testing.T) {
	ip := NewInterpreter()
	// Forms after (exit) never run: the error in the tail would otherwise
	// surface.
	v, err := ip.EvalPersistentSource("(define x 1) (exit) (car '())")
	if err != nil {
		t.Fatalf("EvalPersistentSource: %v", err)
	}
	if v.Tag != VTTerminate {
		t.Fatalf("want terminate, got %#v", v)
	}
	if _, ok := ip.Global.Get("x"); !ok {
		t.Fatalf("forms before (exit) should have run")
	}
}

func Test_Eval_EvalSource_Is_Sandboxed(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.EvalSource("(define hidden 1)"); err != nil {
		t.Fatalf("EvalSource: %v", err)
	}
	if _, ok := ip.Global.Get("hidden"); ok {
		t.Fatalf("EvalSource must not write into Global")
	}
	mustEvalPersistent(t, ip, "(define visible 2)")
	if _, ok := ip.Global.Get("visible"); !ok {
		t.Fatalf("EvalPersistentSource must write into Global")
	}
}

func Test_Eval_Interpreter_Survives_Errors(t *testing.T) {
	ip := NewInterpreter()
	mustEvalPersistent(t, ip, "(define x 5)")
	if _, err := ip.EvalPersistentSource("(car '())"); err == nil {
		t.Fatalf("want error")
	}
	wantInt(t, mustEvalPersistent(t, ip, "(+ x 1)"), 6)
}

func Test_Eval_A_Failing_Form_Aborts_The_Source_Run(t *testing.T) {
	ip := NewInterpreter()
	_, err := ip.EvalPersistentSource("(define a 1) (car '()) (define b 2)")
	if err == nil {
		t.Fatalf("want error")
	}
	if _, ok := ip.Global.Get("a"); !ok {
		t.Fatalf("forms before the failure should have run")
	}
	if _, ok := ip.Global.Get("b"); ok {
		t.Fatalf("forms after the failure must not run")
	}
}

func Test_Eval_Strings_Are_SelfEvaluating(t *testing.T) {
	wantStr(t, evalSrc(t, `"hello"`), "hello")
	wantStr(t, evalSrc(t, `"a\nb"`), "a\nb")
}

func Test_Eval_Comments_Are_Ignored(t *testing.T) {
	wantInt(t, evalSrc(t, `
		; factorial of three
		(define (f n) (if (= n 0) 1 (* n (f (- n 1))))) ; recursive
		(f 3)`), 6)
}
