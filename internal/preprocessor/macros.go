package preprocessor

import (
	"strings"
)

// maxMacroPasses caps fixed-point macro expansion so recursive macros
// terminate without being an error.
const maxMacroPasses = 5

// MacroDef is one user-defined function-like macro.
type MacroDef struct {
	Params   []string
	Variadic bool
	Body     string
}

// ExpandMacros extracts `#def` definitions and `#if`/`#endif` conditional
// blocks from input, then expands macro references in the remaining text
// to a fixed point (capped at maxMacroPasses). Names in predefined count
// as defined for `#if` and expand to empty text.
func ExpandMacros(input string, predefined []string) string {
	stripped, macros := extractMacros(input, predefined)
	current := stripped

	for i := 0; i < maxMacroPasses; i++ {
		next := expandOnce(current, macros)
		if next == current {
			break
		}
		current = next
	}

	return current
}

// extractMacros walks input line by line, collecting macro definitions and
// applying `#if` conditional inclusion. Inclusion nests; an inner block is
// included only when every enclosing block is.
func extractMacros(input string, predefined []string) (string, map[string]MacroDef) {
	macros := map[string]MacroDef{}
	for _, name := range predefined {
		macros[name] = MacroDef{}
	}

	var out strings.Builder
	lines := strings.Split(input, "\n")
	includeStack := []bool{true}

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimLeft(line, " \t")

		if strings.HasPrefix(trimmed, "#if") {
			parent := includeStack[len(includeStack)-1]
			ident := strings.TrimSpace(trimmed[3:])
			_, defined := macros[ident]
			includeStack = append(includeStack, parent && defined)
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "#endif") {
			if len(includeStack) > 1 {
				includeStack = includeStack[:len(includeStack)-1]
			}
			i++
			continue
		}

		if !includeStack[len(includeStack)-1] {
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "#def") {
			name, def, consumed := parseMacroDef(lines, i)
			if name != "" {
				macros[name] = def
				if consumed < 1 {
					consumed = 1
				}
				i += consumed
				continue
			}
		}

		out.WriteString(line)
		out.WriteByte('\n')
		i++
	}

	return out.String(), macros
}

// parseMacroDef parses `#def NAME[(params)] BODY` starting at lines[start],
// following backslash continuations. Returns the macro name (empty when
// malformed), the definition, and the number of lines consumed.
func parseMacroDef(lines []string, start int) (string, MacroDef, int) {
	trimmed := strings.TrimLeft(lines[start], " \t")
	rest := strings.TrimLeft(strings.TrimPrefix(trimmed, "#def"), " \t")

	var name strings.Builder
	idx := 0
	for _, ch := range rest {
		if name.Len() == 0 && !isIdentStart(ch) {
			break
		}
		if name.Len() > 0 && !isIdentContinue(ch) {
			break
		}
		name.WriteRune(ch)
		idx += len(string(ch))
	}

	rest = strings.TrimLeft(rest[idx:], " \t")
	def := MacroDef{}

	if strings.HasPrefix(rest, "(") {
		if end := findMatchingParen(rest); end >= 0 {
			for _, raw := range strings.Split(rest[1:end], ",") {
				param := strings.TrimSpace(raw)
				if param == "" {
					continue
				}
				if param == "$$*" {
					def.Variadic = true
				} else {
					def.Params = append(def.Params, param)
				}
			}
			rest = strings.TrimLeft(rest[end+1:], " \t")
		}
	}

	var bodyLines []string
	i := start
	current := rest
	for {
		content, continued := stripLineContinuation(current)
		bodyLines = append(bodyLines, content)
		if !continued {
			break
		}
		i++
		if i >= len(lines) {
			break
		}
		current = lines[i]
	}

	def.Body = strings.TrimRight(strings.Join(bodyLines, "\n"), " \t\n")
	return name.String(), def, i - start + 1
}

// stripLineContinuation removes a trailing backslash and the whitespace
// before it, reporting whether the body continues on the next line.
func stripLineContinuation(line string) (string, bool) {
	trimmed := strings.TrimRight(line, " \t")
	if strings.HasSuffix(trimmed, "\\") {
		return strings.TrimRight(trimmed[:len(trimmed)-1], " \t"), true
	}
	return line, false
}

// findMatchingParen returns the index of the ')' matching the '(' at
// index 0, string-literal aware, or -1.
func findMatchingParen(s string) int {
	depth := 0
	inString := false
	for i, ch := range s {
		if ch == '"' {
			inString = !inString
		}
		if inString {
			continue
		}
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expandOnce performs one expansion pass over input. Identifiers inside
// string literals are never expanded.
func expandOnce(input string, macros map[string]MacroDef) string {
	var out strings.Builder
	chars := []rune(input)
	inString := false

	i := 0
	for i < len(chars) {
		ch := chars[i]
		if ch == '"' {
			inString = !inString
			out.WriteRune(ch)
			i++
			continue
		}

		if !inString && isIdentStart(ch) {
			start := i
			end := i + 1
			for end < len(chars) && isIdentContinue(chars[end]) {
				end++
			}
			ident := string(chars[start:end])

			if def, ok := macros[ident]; ok {
				nextIdx, replacement, replaced := expandMacroAt(chars, end, def)
				if replaced {
					out.WriteString(replacement)
					i = nextIdx
					continue
				}
			}

			out.WriteString(ident)
			i = end
			continue
		}

		out.WriteRune(ch)
		i++
	}

	return out.String()
}

// expandMacroAt attempts to expand one macro reference whose identifier
// ends at identEnd. A parameterful macro referenced without '(' is left
// unexpanded. When the replacement ends with ';', a following source ';'
// is consumed to avoid double terminators.
func expandMacroAt(chars []rune, identEnd int, def MacroDef) (int, string, bool) {
	i := identEnd
	for i < len(chars) && isSpace(chars[i]) {
		i++
	}

	if i < len(chars) && chars[i] == '(' {
		if args, endIdx, ok := parseCallArgs(chars, i); ok {
			replaced := applyMacro(def, args)
			next := endIdx
			if strings.HasSuffix(strings.TrimRight(replaced, " \t\n"), ";") {
				for next < len(chars) && isSpace(chars[next]) {
					next++
				}
				if next < len(chars) && chars[next] == ';' {
					next++
				}
			}
			return next, replaced, true
		}
	}

	if len(def.Params) == 0 && !def.Variadic {
		return identEnd, def.Body, true
	}

	return identEnd, "", false
}

// parseCallArgs splits a balanced-paren call argument list starting at the
// '(' at startParen, honoring string literals and nested parens.
func parseCallArgs(chars []rune, startParen int) ([]string, int, bool) {
	depth := 0
	inString := false
	var args []string
	var current strings.Builder

	i := startParen
	for i < len(chars) {
		ch := chars[i]
		if ch == '"' {
			inString = !inString
		}
		if !inString {
			switch ch {
			case '(':
				depth++
				if depth > 1 {
					current.WriteRune(ch)
				}
				i++
				continue
			case ')':
				depth--
				if depth == 0 {
					trimmed := strings.TrimSpace(current.String())
					if trimmed != "" {
						args = append(args, trimmed)
					}
					return args, i + 1, true
				}
				current.WriteRune(ch)
				i++
				continue
			case ',':
				if depth == 1 {
					args = append(args, strings.TrimSpace(current.String()))
					current.Reset()
					i++
					continue
				}
			}
		}
		if depth >= 1 {
			current.WriteRune(ch)
		}
		i++
	}

	return nil, 0, false
}

// applyMacro substitutes parameters (as whole identifiers) and the `$$*`
// splice into the macro body.
func applyMacro(def MacroDef, args []string) string {
	body := def.Body

	var varargs []string
	if def.Variadic && len(args) >= len(def.Params) {
		varargs = args[len(def.Params):]
	}
	varList := "[" + strings.Join(varargs, ", ") + "]"

	body = replaceTokenOutsideStrings(body, "$$*", varList)
	for idx, param := range def.Params {
		value := ""
		if idx < len(args) {
			value = args[idx]
		}
		body = replaceIdentOutsideStrings(body, param, value)
	}

	return body
}

// replaceTokenOutsideStrings replaces every occurrence of token that is
// not inside a string literal.
func replaceTokenOutsideStrings(input, token, replacement string) string {
	var out strings.Builder
	chars := []rune(input)
	tokenChars := []rune(token)
	inString := false

	i := 0
	for i < len(chars) {
		ch := chars[i]
		if ch == '"' {
			inString = !inString
			out.WriteRune(ch)
			i++
			continue
		}
		if !inString && matchesAt(chars, i, tokenChars) {
			out.WriteString(replacement)
			i += len(tokenChars)
			continue
		}
		out.WriteRune(ch)
		i++
	}

	return out.String()
}

// replaceIdentOutsideStrings replaces whole-identifier occurrences of
// ident that are not inside a string literal.
func replaceIdentOutsideStrings(input, ident, replacement string) string {
	var out strings.Builder
	chars := []rune(input)
	inString := false

	i := 0
	for i < len(chars) {
		ch := chars[i]
		if ch == '"' {
			inString = !inString
			out.WriteRune(ch)
			i++
			continue
		}
		if !inString && isIdentStart(ch) {
			start := i
			end := i + 1
			for end < len(chars) && isIdentContinue(chars[end]) {
				end++
			}
			token := string(chars[start:end])
			if token == ident {
				out.WriteString(replacement)
			} else {
				out.WriteString(token)
			}
			i = end
			continue
		}
		out.WriteRune(ch)
		i++
	}

	return out.String()
}

func matchesAt(haystack []rune, start int, needle []rune) bool {
	if start+len(needle) > len(haystack) {
		return false
	}
	for i, ch := range needle {
		if haystack[start+i] != ch {
			return false
		}
	}
	return true
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
