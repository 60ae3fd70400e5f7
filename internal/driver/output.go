package driver

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/tokynblast/minis/internal/errors"
)

// OutputTarget is where a textual artifact goes.
type OutputTarget struct {
	Stdout bool
	Path   string
}

// ResolveTextOutputTarget decides where textual output lands: an explicit
// -o path ("-" means stdout), stdout when it is not a terminal, or a
// default file named from the input stem.
func ResolveTextOutputTarget(outputPath, inputPath, outputFormat string) (OutputTarget, error) {
	if outputPath != "" {
		if outputPath == "-" {
			return OutputTarget{Stdout: true}, nil
		}
		return OutputTarget{Path: outputPath}, nil
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return OutputTarget{Stdout: true}, nil
	}

	if path := DefaultOutputPath(inputPath, outputFormat); path != "" {
		return OutputTarget{Path: path}, nil
	}

	return OutputTarget{}, errors.New(errors.DRV003, "no output file specified")
}

// ResolveBinaryOutputPath decides where a binary artifact lands; an empty
// result means no path could be derived.
func ResolveBinaryOutputPath(outputPath, inputPath, outputFormat string) string {
	if outputPath != "" {
		return outputPath
	}
	return DefaultOutputPath(inputPath, outputFormat)
}

// DefaultOutputPath names the output from the input stem with an
// extension matching the format, in the input's directory.
func DefaultOutputPath(inputPath, outputFormat string) string {
	if inputPath == "" {
		return ""
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := filepath.Dir(inputPath)

	var fileName string
	switch outputFormat {
	case "-LL":
		fileName = stem + ".ll"
	case "-LLM":
		fileName = stem + ".opt.ll"
	case "-MIR":
		fileName = stem + ".mir"
	case "-S":
		fileName = stem + ".s"
	case "-OBJ":
		fileName = stem + ".o"
	default:
		if runtime.GOOS == "windows" {
			fileName = stem + ".exe"
		} else {
			fileName = stem
		}
	}

	return filepath.Join(dir, fileName)
}
