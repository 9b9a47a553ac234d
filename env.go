package scm

import "fmt"

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; the first match wins, so shadowing is structural (a new
// frame) rather than destructive. Extension (let/letrec/application) always
// allocates a fresh frame and never mutates an existing one — that is what
// makes environments safe for closures to capture by reference. The two
// in-place operations are Define (bind in the current frame; this is how
// define makes a name visible to closures that already captured the frame)
// and Set (update the nearest existing binding, for set! and letrec
// backpatching).
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in the current frame, shadowing any outer binding.
// Redefining a name already bound in this frame overwrites it.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name to v. If no binding
// exists in any visible frame, Set returns an error (it does not implicitly
// define).
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	if v, ok := e.table[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, false
}
