// Package repl implements the interactive mode: snippets are
// macro-expanded, parsed, collected, monomorphized and emitted, and the
// IR is printed back. Include lines are not expanded.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/tokynblast/minis/internal/codegen"
	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/driver"
	"github.com/tokynblast/minis/internal/lexer"
	"github.com/tokynblast/minis/internal/mono"
	"github.com/tokynblast/minis/internal/parser"
	"github.com/tokynblast/minis/internal/preprocessor"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// REPL holds interactive session state.
type REPL struct {
	triple  string
	defines []string
	version string
}

// New creates a REPL targeting the given triple.
func New(triple, version string, defines []string) *REPL {
	return &REPL{triple: triple, defines: defines, version: version}
}

// Start begins the interactive session.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".minis_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f) // history is optional
		f.Close()
	}

	line.SetMultiLineMode(true)
	line.SetCompleter(func(text string) (c []string) {
		if strings.HasPrefix(text, ":") {
			for _, cmd := range []string{":help", ":triple", ":reset", ":quit"} {
				if strings.HasPrefix(cmd, text) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s %s\n", bold("minis"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	for {
		input, err := r.readSnippet(line)
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.compileSnippet(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// readSnippet reads lines until braces balance, so whole function and
// class bodies can be entered across lines.
func (r *REPL) readSnippet(line *liner.State) (string, error) {
	input, err := line.Prompt("minis> ")
	if err != nil {
		return "", err
	}

	depth := braceDepth(input)
	lines := []string{input}
	for depth > 0 {
		cont, err := line.Prompt("   ... ")
		if err != nil {
			return "", err
		}
		lines = append(lines, cont)
		depth += braceDepth(cont)
	}

	return strings.Join(lines, "\n"), nil
}

func braceDepth(s string) int {
	depth := 0
	inString := false
	for _, ch := range s {
		switch ch {
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
			}
		}
	}
	return depth
}

// handleCommand dispatches a :command; it reports whether to quit.
func (r *REPL) handleCommand(cmd string, out io.Writer) bool {
	parts := strings.Fields(cmd)

	switch parts[0] {
	case ":help", ":h":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h        Show this help")
		fmt.Fprintln(out, "  :triple <t>      Set the target triple")
		fmt.Fprintln(out, "  :reset           Reset the target triple to the host default")
		fmt.Fprintln(out, "  :quit, :q        Exit the REPL")

	case ":triple":
		if len(parts) < 2 {
			fmt.Fprintf(out, "target triple: %s\n", r.triple)
			return false
		}
		r.triple = parts[1]
		fmt.Fprintf(out, "target triple set to %s\n", r.triple)

	case ":reset":
		r.triple = driver.DetectTargetTriple()
		fmt.Fprintf(out, "target triple reset to %s\n", r.triple)

	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(out, "Type :help for help")
	}

	return false
}

// compileSnippet runs a snippet through the front-end and prints its IR.
// A snippet that is not a valid top-level sequence is retried wrapped in
// a void function, so bare statements work too. The main-function rule
// does not apply interactively.
func (r *REPL) compileSnippet(input string, out io.Writer) {
	ir, errs := r.emit(input)
	if len(errs) > 0 {
		wrapped := fmt.Sprintf("void __repl() {\n%s\n}", input)
		if wrappedIR, wrappedErrs := r.emit(wrapped); len(wrappedErrs) == 0 {
			fmt.Fprintln(out, driver.StripExternsForDisplay(wrappedIR))
			return
		}
		fmt.Fprintf(out, "%s:\n", red("Error"))
		for _, e := range errs {
			fmt.Fprintf(out, "  %s %v\n", red("•"), e)
		}
		return
	}
	fmt.Fprintln(out, driver.StripExternsForDisplay(ir))
}

func (r *REPL) emit(input string) (string, []error) {
	normalized := string(lexer.Normalize([]byte(input)))
	preprocessed := preprocessor.ExpandMacros(normalized, r.defines)

	l := lexer.New(preprocessed, "<repl>")
	p := parser.New(l)
	file := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		return "", errs
	}

	tables, err := collect.Collect(file)
	if err != nil {
		return "", []error{err}
	}

	instances := mono.Monomorphize(tables, io.Discard)
	return codegen.EmitModule(tables, instances, "<repl>", r.triple), nil
}
