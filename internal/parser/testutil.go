package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/lexer"
)

// parseFile parses source and fails the test on any parser error.
func parseFile(t *testing.T, input string) *ast.File {
	t.Helper()

	l := lexer.New(input, "test.mi")
	p := New(l)
	file := p.ParseFile()

	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			t.Errorf("parser error: %v", e)
		}
		t.FailNow()
	}
	return file
}

// parseWithErrors parses source expecting at least one error.
func parseWithErrors(t *testing.T, input string) (*ast.File, []error) {
	t.Helper()

	l := lexer.New(input, "test.mi")
	p := New(l)
	file := p.ParseFile()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected parser errors, got none")
	}
	return file, p.Errors()
}

// ignorePos strips source positions so structural comparisons stay
// readable.
var ignorePos = cmpopts.IgnoreTypes(ast.Pos{})

// requireEqualAST compares two AST fragments, ignoring positions.
func requireEqualAST(t *testing.T, want, got interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Fatalf("AST mismatch (-want +got):\n%s", diff)
	}
}
