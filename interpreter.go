// interpreter.go — public API surface for the scm interpreter.
//
// OVERVIEW
// --------
// The pipeline is: source text → Lexer → Reader (syntax.go) → Syntax →
// Parse (parse.go, environment-sensitive compile) → Expr → eval (eval.go)
// → Value → printer.go. This file exposes the entry points that run that
// pipeline and owns the single recover boundary: the engine raises failures
// as internal panics, and every public method here converts them into a
// *RuntimeError Go error. Nothing below this surface recovers.
//
// SCOPING
// -------
// Programs evaluate in environments (*Env) forming a lexical chain.
// The Interpreter owns one well-known frame, Global:
//   - EvalSource runs in a fresh child of Global, so bindings made by the
//     program land in a throwaway frame (sandboxed runs, tests).
//   - EvalPersistentSource runs in Global itself (REPL/driver state).
//   - EvalForm evaluates exactly in the environment you pass.
//
// The environment is threaded through both compilation (a bound name
// shadows primitives and reserved words) and evaluation (binding lookup) —
// it is the same logical chain.
//
// TERMINATION
// -----------
// (exit) evaluates to the distinguished Terminate value. Drivers must stop
// their read-eval loop when they see v.Tag == VTTerminate; it is a signal,
// not an error.
package scm

import (
	"fmt"
	"io"
	"os"
)

// Interpreter is the entry point for evaluating Scheme programs.
//
// Public fields:
//   - Global — the process-wide environment threaded through every
//     top-level form for the interpreter's lifetime.
//   - Stdout — sink for the display primitive (tests substitute a buffer).
type Interpreter struct {
	Global *Env
	Stdout io.Writer
}

// NewInterpreter constructs an interpreter with an empty Global environment.
// Primitives are not environment entries: they are resolved by the compiler,
// so a fresh Global is genuinely empty and user bindings may shadow any
// primitive or reserved word.
func NewInterpreter() *Interpreter {
	return &Interpreter{Global: NewEnv(nil), Stdout: os.Stdout}
}

// Parse compiles one form against env without evaluating it.
func (ip *Interpreter) Parse(stx Syntax, env *Env) (expr Expr, err error) {
	defer recoverRuntime(&err)
	return parseSyntax(stx, env), nil
}

// EvalForm compiles and evaluates one form in env.
func (ip *Interpreter) EvalForm(stx Syntax, env *Env) (v Value, err error) {
	defer recoverRuntime(&err)
	return ip.eval(parseSyntax(stx, env), env), nil
}

// EvalSource reads, compiles and evaluates every top-level form in src in a
// fresh child of Global, returning the last form's value. Evaluation stops
// early when a form yields Terminate. A failing form aborts the run.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	return ip.evalAll(src, NewEnv(ip.Global))
}

// EvalPersistentSource is EvalSource evaluated in Global itself, so defines
// and assignments persist across calls (REPL-style).
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	return ip.evalAll(src, ip.Global)
}

func (ip *Interpreter) evalAll(src string, env *Env) (Value, error) {
	forms, err := ReadAll(src)
	if err != nil {
		return Value{}, err
	}
	result := Void
	for _, stx := range forms {
		v, err := ip.EvalForm(stx, env)
		if err != nil {
			return Value{}, err
		}
		if v.Tag == VTTerminate {
			return v, nil
		}
		result = v
	}
	return result, nil
}

// recoverRuntime is the engine's single recover point: it converts the
// internal failure signal (and any stray panic) into a *RuntimeError.
func recoverRuntime(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch sig := r.(type) {
	case rtErr:
		*err = &RuntimeError{Msg: sig.msg}
	case error:
		*err = &RuntimeError{Msg: sig.Error()}
	default:
		*err = &RuntimeError{Msg: fmt.Sprintf("runtime panic: %v", r)}
	}
}
