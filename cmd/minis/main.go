package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/tokynblast/minis/internal/config"
	"github.com/tokynblast/minis/internal/driver"
	"github.com/tokynblast/minis/internal/repl"
)

var (
	// Version info - set by ldflags during build
	Version = "dev"

	// Color output
	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// cliOptions is the raw command line before manifest defaults apply.
type cliOptions struct {
	inputPath    string
	outputPath   string
	outputFormat string // -S, -LL, -LLM, -MIR, -OBJ, -BC, or "" for binary
	optLevel     string // -O0..-O3
	repl         bool
	version      bool
	help         bool
}

func main() {
	opts := parseArgs(os.Args[1:])

	if opts.version {
		printVersion()
		return
	}
	if opts.help {
		printHelp()
		return
	}

	// The manifest supplies defaults; flags win.
	cfg, err := config.LoadNear(opts.inputPath)
	if err != nil {
		fatal(err)
	}

	optLevel := opts.optLevel
	triple := ""
	var defines, extraObjects []string
	if cfg != nil {
		if optLevel == "" {
			optLevel = cfg.Opt
		}
		triple = cfg.Triple
		defines = cfg.Defines
		extraObjects = cfg.Objects
	}
	if triple == "" {
		triple = driver.DetectTargetTriple()
	}

	if opts.repl {
		repl.New(triple, Version, defines).Start(os.Stdout)
		return
	}

	d := driver.New()
	err = d.Run(driver.Options{
		InputPath:    opts.inputPath,
		OutputPath:   opts.outputPath,
		OutputFormat: opts.outputFormat,
		OptLevel:     optLevel,
		TargetTriple: triple,
		Defines:      defines,
		ExtraObjects: extraObjects,
	})
	if err != nil {
		fatal(err)
	}
}

// parseArgs scans the argument list by hand; the -LL style single-dash
// long flags do not fit the flag package.
func parseArgs(args []string) cliOptions {
	var opts cliOptions
	expectOutput := false

	for _, arg := range args {
		if expectOutput {
			opts.outputPath = arg
			expectOutput = false
			continue
		}

		switch arg {
		case "-o":
			expectOutput = true
		case "-S", "-LL", "-LLM", "-MIR", "-OBJ", "-BC":
			opts.outputFormat = arg
		case "-O0", "-O1", "-O2", "-O3":
			opts.optLevel = arg
		case "-repl":
			opts.repl = true
		case "-version", "--version":
			opts.version = true
		case "-help", "--help", "-h":
			opts.help = true
		default:
			if opts.inputPath == "" && !strings.HasPrefix(arg, "-") {
				opts.inputPath = arg
			}
		}
	}

	return opts
}

func printVersion() {
	fmt.Printf("minis %s\n", bold(Version))
}

func printHelp() {
	fmt.Println(bold("minis - ahead-of-time compiler for the minis language"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  minis [flags] [file.mi]")
	fmt.Println()
	fmt.Println("Reads stdin when no file is given. Without a format flag the")
	fmt.Println("compiler produces a linked native executable.")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Printf("  %s PATH      Output path; '-' means stdout for text outputs\n", cyan("-o"))
	fmt.Printf("  %s           Emit assembly\n", cyan("-S"))
	fmt.Printf("  %s          Emit unoptimized IR\n", cyan("-LL"))
	fmt.Printf("  %s         Emit optimized IR\n", cyan("-LLM"))
	fmt.Printf("  %s         Emit unoptimized IR (same as -LL)\n", cyan("-MIR"))
	fmt.Printf("  %s         Emit an object file\n", cyan("-OBJ"))
	fmt.Printf("  %s..%s     Optimizer level (default -O2)\n", cyan("-O0"), cyan("-O3"))
	fmt.Printf("  %s        Start the interactive REPL\n", cyan("-repl"))
	fmt.Println()
	fmt.Println("A minis.yaml manifest next to the input supplies defaults for")
	fmt.Println("the optimizer level, target triple, linker objects, and")
	fmt.Println("predefined macro names; flags override it.")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
	os.Exit(1)
}
