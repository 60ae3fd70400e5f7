// Package driver orchestrates a compilation: preprocessing, parsing,
// collection, monomorphization, IR emission, and the external tool runs
// that turn IR into assembly, objects, or a linked binary.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tokynblast/minis/internal/codegen"
	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/errors"
	"github.com/tokynblast/minis/internal/lexer"
	"github.com/tokynblast/minis/internal/mono"
	"github.com/tokynblast/minis/internal/parser"
	"github.com/tokynblast/minis/internal/preprocessor"
)

// Options is the resolved compiler invocation.
type Options struct {
	InputPath    string // "" reads stdin
	OutputPath   string // "" resolves a default; "-" is stdout for text
	OutputFormat string // "-S", "-LL", "-LLM", "-MIR", "-OBJ", "-BC", or "" for a binary
	OptLevel     string // "-O0".."-O3"; "" defaults to -O2
	TargetTriple string // "" detects the host triple
	Defines      []string
	ExtraObjects []string
}

// Driver runs compilations. Warnings go to Stderr.
type Driver struct {
	Stderr io.Writer
}

// New creates a driver writing warnings to stderr.
func New() *Driver {
	return &Driver{Stderr: os.Stderr}
}

// BuildIR runs the front-end over source text and returns the emitted IR
// module plus the extra object files collected from includes.
func (d *Driver) BuildIR(source, sourceName, baseDir, targetTriple string, defines []string) (string, []string, error) {
	normalized := string(lexer.Normalize([]byte(source)))

	included, objects, err := preprocessor.ExpandIncludes(normalized, baseDir)
	if err != nil {
		return "", nil, err
	}
	preprocessed := preprocessor.ExpandMacros(included, defines)

	l := lexer.New(preprocessed, sourceName)
	p := parser.New(l)
	file := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		var sb strings.Builder
		sb.WriteString("parse error:")
		for _, e := range errs {
			sb.WriteString("\n  ")
			sb.WriteString(e.Error())
		}
		return "", nil, fmt.Errorf("%s", sb.String())
	}

	tables, err := collect.Collect(file)
	if err != nil {
		return "", nil, err
	}
	if !tables.HasMain() {
		return "", nil, errors.New(errors.COL005, "no main function defined")
	}

	instances := mono.Monomorphize(tables, d.stderr())

	ir := codegen.EmitModule(tables, instances, sourceName, targetTriple)
	return ir, objects, nil
}

// Run performs a full compilation per the options: reads the input,
// builds IR, optimizes, and emits the requested artifact. Fatal problems
// are returned as errors; an optimizer failure only warns and falls back
// to the unoptimized IR.
func (d *Driver) Run(opts Options) error {
	source, sourceName, err := readInput(opts.InputPath)
	if err != nil {
		return err
	}

	baseDir := ""
	if opts.InputPath != "" {
		baseDir = filepath.Dir(opts.InputPath)
	}

	triple := opts.TargetTriple
	if triple == "" {
		triple = DetectTargetTriple()
	}

	unoptIR, objects, err := d.BuildIR(source, sourceName, baseDir, triple, opts.Defines)
	if err != nil {
		return err
	}
	objects = append(objects, opts.ExtraObjects...)

	optLevel := opts.OptLevel
	if optLevel == "" {
		optLevel = "-O2"
	}

	ir, err := RunOpt(unoptIR, optLevel)
	if err != nil {
		fmt.Fprintf(d.stderr(), "warning: optimization failed: %v\n", err)
		ir = unoptIR
	}

	switch opts.OutputFormat {
	case "-LL", "-MIR":
		return d.writeTextIR(opts, StripExternsForDisplay(unoptIR))
	case "-LLM":
		return d.writeTextIR(opts, StripExternsForDisplay(ir))
	case "-S":
		target, err := ResolveTextOutputTarget(opts.OutputPath, opts.InputPath, opts.OutputFormat)
		if err != nil {
			return err
		}
		if target.Stdout {
			return RunLLC(ir, "-", "asm")
		}
		return RunLLC(ir, target.Path, "asm")
	case "-OBJ":
		path := ResolveBinaryOutputPath(opts.OutputPath, opts.InputPath, opts.OutputFormat)
		if path == "" {
			return errors.New(errors.DRV003, "no output file specified for object output")
		}
		return CompileToObject(ir, path)
	default:
		path := ResolveBinaryOutputPath(opts.OutputPath, opts.InputPath, opts.OutputFormat)
		if path == "" {
			return errors.New(errors.DRV003, "no output file specified for binary")
		}
		return CompileToBinary(ir, path, objects)
	}
}

// writeTextIR delivers textual IR to the resolved target.
func (d *Driver) writeTextIR(opts Options, ir string) error {
	target, err := ResolveTextOutputTarget(opts.OutputPath, opts.InputPath, opts.OutputFormat)
	if err != nil {
		return err
	}
	if target.Stdout {
		fmt.Println(ir)
		return nil
	}
	if err := os.WriteFile(target.Path, []byte(ir), 0o644); err != nil {
		return errors.New(errors.DRV004, "failed to write output file: %v", err)
	}
	return nil
}

// StripExternsForDisplay removes `declare` lines from textual IR output.
// The full module, externs included, is what the external tools consume.
func StripExternsForDisplay(ir string) string {
	var kept []string
	for _, line := range strings.Split(ir, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "declare ") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// readInput reads the source file, or stdin when no path is given.
func readInput(path string) (string, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", errors.New(errors.DRV001, "failed to read input file: %v", err)
		}
		return string(data), path, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", errors.New(errors.DRV001, "failed to read stdin: %v", err)
	}
	return string(data), "<stdin>", nil
}

func (d *Driver) stderr() io.Writer {
	if d.Stderr != nil {
		return d.Stderr
	}
	return os.Stderr
}
