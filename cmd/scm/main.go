package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	scm "github.com/schemego/scm"
)

const (
	appName     = "scm"
	historyFile = ".scm_history"
	promptMain  = "scm> "
	promptCont  = "...> "
)

var banner = fmt.Sprintf("scm %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", scm.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(scm.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`scm %s

Usage:
  %s run <file.scm>    Run a script, one top-level form at a time.
  %s repl              Start the REPL (default with no arguments).
  %s version           Print the version.

`, scm.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.scm>\n", appName)
		return 2
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	forms, rerr := scm.ReadAll(string(src))
	if rerr != nil {
		fmt.Fprintln(os.Stderr, scm.WrapErrorWithSource(rerr, string(src)).Error())
		return 1
	}

	ip := scm.NewInterpreter()
	failed := 0
	for _, stx := range forms {
		v, err := ip.EvalForm(stx, ip.Global)
		if err != nil {
			// Errors abort the current form only; later forms still run
			// against the surviving global state.
			fmt.Fprintln(os.Stderr, err.Error())
			failed++
			continue
		}
		if v.Tag == scm.VTTerminate {
			break
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := scm.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}

		forms, rerr := scm.ReadAll(code)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, red(scm.WrapErrorWithSource(rerr, code).Error()))
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		for _, stx := range forms {
			v, err := ip.EvalForm(stx, ip.Global)
			if err != nil {
				fmt.Fprintln(os.Stderr, red(err.Error()))
				continue
			}
			if v.Tag == scm.VTTerminate {
				return 0
			}
			fmt.Println(blue(scm.FormatValue(v)))
		}
	}
}

// readByParseProbe accumulates input lines until the buffer reads as a
// complete sequence of forms, prompting with a continuation marker while the
// reader says the input merely ended mid-form.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := scm.ReadAll(src); perr == nil || !scm.IsIncomplete(perr) {
			return src, true
		}
	}
}
