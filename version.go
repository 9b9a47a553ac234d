package scm

// Version is the interpreter release tag reported by `scm version` and the
// REPL banner.
const Version = "0.4.1"
