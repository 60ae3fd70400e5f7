package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `int add(int a, int b) {
  return a + b;
}

if (x >= 10) { print("big"); } else { exit(1); }

int y = { (x == 1) -> 10; -> 0; };

variant<int, float> id(!variant<int, float> v) { return v; }

// comment line
0x1F 0b101 3.14 -7 true false unknown a && b || c
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "int"},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "int"},
		{IDENT, "a"},
		{COMMA, ","},
		{IDENT, "int"},
		{IDENT, "b"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "a"},
		{PLUS, "+"},
		{IDENT, "b"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},

		{IF, "if"},
		{LPAREN, "("},
		{IDENT, "x"},
		{GTE, ">="},
		{INT, "10"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{IDENT, "print"},
		{LPAREN, "("},
		{STRING, "big"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{LBRACE, "{"},
		{IDENT, "exit"},
		{LPAREN, "("},
		{INT, "1"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},

		{IDENT, "int"},
		{IDENT, "y"},
		{ASSIGN, "="},
		{LBRACE, "{"},
		{LPAREN, "("},
		{IDENT, "x"},
		{EQ, "=="},
		{INT, "1"},
		{RPAREN, ")"},
		{ARROW, "->"},
		{INT, "10"},
		{SEMICOLON, ";"},
		{ARROW, "->"},
		{INT, "0"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},

		{VARIANT, "variant"},
		{LT, "<"},
		{IDENT, "int"},
		{COMMA, ","},
		{IDENT, "float"},
		{GT, ">"},
		{IDENT, "id"},
		{LPAREN, "("},
		{BANG, "!"},
		{VARIANT, "variant"},
		{LT, "<"},
		{IDENT, "int"},
		{COMMA, ","},
		{IDENT, "float"},
		{GT, ">"},
		{IDENT, "v"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "v"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},

		{HEX, "0x1F"},
		{BIN, "0b101"},
		{FLOAT, "3.14"},
		{MINUS, "-"},
		{INT, "7"},
		{TRUE, "true"},
		{FALSE, "false"},
		{UNKNOWN, "unknown"},
		{IDENT, "a"},
		{AND, "&&"},
		{IDENT, "b"},
		{OR, "||"},
		{IDENT, "c"},

		{EOF, ""},
	}

	l := New(input, "test.mi")

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong token type. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\"d"`, "test.mi")
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Literal != "a\nb\tc\"d" {
		t.Fatalf("wrong unescaped literal: %q", tok.Literal)
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("a\n  b", "test.mi")

	a := l.NextToken()
	if a.Line != 1 {
		t.Errorf("a on line %d, want 1", a.Line)
	}

	b := l.NextToken()
	if b.Line != 2 {
		t.Errorf("b on line %d, want 2", b.Line)
	}
	if b.Position() != "test.mi:2:3" {
		t.Errorf("b position %q", b.Position())
	}
}
