package driver

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tokynblast/minis/internal/errors"
)

// RunOpt pipes the IR module through `opt` at the given level and returns
// the optimized textual IR.
func RunOpt(ir, level string) (string, error) {
	cmd := exec.Command("opt", level, "-S")
	cmd.Stdin = strings.NewReader(ir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s", strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to run opt: %w", err)
	}

	return stdout.String(), nil
}

// RunLLVMAs assembles textual IR into bitcode at outputPath. Reserved for
// the -BC output format.
func RunLLVMAs(ir, outputPath string) error {
	cmd := exec.Command("llvm-as", "-o", outputPath)
	cmd.Stdin = strings.NewReader(ir)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return errors.New(errors.DRV002, "llvm-as failed: %s", strings.TrimSpace(stderr.String()))
		}
		return errors.New(errors.DRV002, "failed to start llvm-as: %v", err)
	}
	return nil
}

// RunLLC lowers IR to assembly or an object file. An outputPath of "-"
// prints the result to stdout.
func RunLLC(ir, outputPath, filetype string) error {
	cmd := exec.Command("llc", "-filetype="+filetype, "-o", outputPath)
	cmd.Stdin = strings.NewReader(ir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return errors.New(errors.DRV002, "llc failed: %s", strings.TrimSpace(stderr.String()))
		}
		return errors.New(errors.DRV002, "failed to start llc: %v", err)
	}

	if outputPath == "-" {
		fmt.Println(stdout.String())
	}
	return nil
}

// CompileToObject lowers IR to a native object file.
func CompileToObject(ir, outputPath string) error {
	return RunLLC(ir, outputPath, "obj")
}

// CompileToBinary lowers IR to an object next to outputPath, then links
// it (plus any extra objects) into a native executable.
func CompileToBinary(ir, outputPath string, extraObjects []string) error {
	ext := filepath.Ext(outputPath)
	objPath := strings.TrimSuffix(outputPath, ext) + ".o"

	if err := CompileToObject(ir, objPath); err != nil {
		return err
	}
	return linkObject(objPath, outputPath, extraObjects)
}

// linkObject tries the system C compiler drivers in order and links with
// the first one that succeeds. Linux links with -no-pie.
func linkObject(objPath, outputPath string, extraObjects []string) error {
	candidates := []string{"cc", "clang", "gcc"}
	if runtime.GOOS == "windows" {
		candidates = []string{"clang", "gcc", "cc"}
	}

	var lastErr error
	for _, tool := range candidates {
		args := []string{objPath, "-o", outputPath}
		args = append(args, extraObjects...)
		if runtime.GOOS == "linux" {
			args = append(args, "-no-pie")
		}

		cmd := exec.Command(tool, args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		err := cmd.Run()
		if err == nil {
			return nil
		}
		if stderr.Len() > 0 {
			lastErr = fmt.Errorf("%s: %s", tool, strings.TrimSpace(stderr.String()))
		} else {
			lastErr = fmt.Errorf("%s: failed to start linker: %v", tool, err)
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no suitable system linker found")
	}
	return errors.New(errors.DRV002, "%v", lastErr)
}
