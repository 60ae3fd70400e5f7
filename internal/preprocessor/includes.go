// Package preprocessor implements the two textual stages that run before
// parsing: include expansion and macro expansion.
package preprocessor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tokynblast/minis/internal/errors"
)

// ExpandIncludes expands `include "PATH";` lines in input. Source includes
// (.mi) are expanded recursively; object includes (.o/.obj) are collected
// for the linker in the order encountered, duplicates allowed. Each source
// file is included at most once per compilation; a repeat inclusion is
// silently skipped.
func ExpandIncludes(input string, baseDir string) (string, []string, error) {
	visited := map[string]bool{}
	var objects []string
	expanded, err := expandIncludesInner(input, baseDir, visited, &objects)
	if err != nil {
		return "", nil, err
	}
	return expanded, objects, nil
}

func expandIncludesInner(input, baseDir string, visited map[string]bool, objects *[]string) (string, error) {
	var out strings.Builder

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, "include ") {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		end := strings.LastIndexByte(trimmed, ';')
		if end < 0 {
			return "", errors.New(errors.PRE001, "include statement must end with ';'")
		}
		content := strings.TrimSpace(strings.TrimPrefix(trimmed[:end], "include"))

		pathText, isString := parseIncludePath(content)
		if !isString {
			return "", errors.New(errors.PRE002, "include path must be a string literal")
		}

		includePath := resolveIncludePath(pathText, baseDir)
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(includePath), "."))

		switch ext {
		case "mi":
			abs, err := filepath.Abs(includePath)
			if err != nil {
				abs = includePath
			}
			if visited[abs] {
				continue
			}
			visited[abs] = true

			text, err := os.ReadFile(includePath)
			if err != nil {
				return "", errors.New(errors.PRE003, "failed to read include file %s: %v", includePath, err)
			}
			expanded, err := expandIncludesInner(string(text), filepath.Dir(includePath), visited, objects)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
			out.WriteByte('\n')

		case "o", "obj":
			*objects = append(*objects, includePath)

		default:
			return "", errors.New(errors.PRE004, "unsupported include file type: %s", includePath)
		}
	}

	return out.String(), nil
}

// parseIncludePath extracts the quoted path from the include operand.
func parseIncludePath(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(trimmed, `"`); ok {
		if end := strings.LastIndexByte(rest, '"'); end >= 0 {
			return rest[:end], true
		}
	}
	return trimmed, false
}

// resolveIncludePath resolves a path relative to the including file's
// directory. Absolute paths are honored as-is.
func resolveIncludePath(pathText, baseDir string) string {
	if filepath.IsAbs(pathText) || baseDir == "" {
		return pathText
	}
	return filepath.Join(baseDir, pathText)
}
