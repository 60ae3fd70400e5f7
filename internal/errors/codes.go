// Package errors provides centralized error code definitions for the minis
// compiler. All error codes follow a consistent taxonomy so that every
// diagnostic printed by the driver can be traced back to a pipeline stage.
package errors

import "fmt"

// Error code constants organized by phase.
const (
	// ============================================================================
	// Preprocessor Errors (PRE###)
	// ============================================================================

	// PRE001 indicates an include statement without a terminating ';'
	PRE001 = "PRE001"

	// PRE002 indicates an include path that is not a string literal
	PRE002 = "PRE002"

	// PRE003 indicates an include target that could not be read
	PRE003 = "PRE003"

	// PRE004 indicates an include file with an unsupported extension
	PRE004 = "PRE004"

	// ============================================================================
	// Parser Errors (PAR###)
	// ============================================================================

	// PAR001 indicates an unexpected token was encountered during parsing
	PAR001 = "PAR001"

	// PAR002 indicates a missing closing delimiter (paren, bracket, brace)
	PAR002 = "PAR002"

	// PAR003 indicates invalid function declaration syntax
	PAR003 = "PAR003"

	// PAR004 indicates invalid class declaration syntax
	PAR004 = "PAR004"

	// PAR005 indicates invalid circuit expression syntax
	PAR005 = "PAR005"

	// PAR999 indicates an internal parser panic converted to an error
	PAR999 = "PAR999"

	// ============================================================================
	// Collector Errors (COL###)
	// ============================================================================

	// COL001 indicates a global of string/list/dict type
	COL001 = "COL001"

	// COL002 indicates a global initializer that is not a constant literal
	COL002 = "COL002"

	// COL003 indicates a bool/tribool global initializer out of range
	COL003 = "COL003"

	// COL004 indicates an invalid digit in a typed integer literal
	COL004 = "COL004"

	// COL005 indicates the module has no main function
	COL005 = "COL005"

	// ============================================================================
	// Code Generation Errors (GEN###)
	// ============================================================================

	// GEN001 indicates an internal emission failure
	GEN001 = "GEN001"

	// ============================================================================
	// Driver Errors (DRV###)
	// ============================================================================

	// DRV001 indicates the input file could not be read
	DRV001 = "DRV001"

	// DRV002 indicates an external tool could not be started or failed
	DRV002 = "DRV002"

	// DRV003 indicates no output path could be resolved
	DRV003 = "DRV003"

	// DRV004 indicates the output file could not be written
	DRV004 = "DRV004"
)

// CompilerError is a diagnostic with a stable code and source position.
// Position may be zero for errors that are not anchored to a source span
// (driver and tool failures).
type CompilerError struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func (e *CompilerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %s:%d:%d: %s", e.Code, e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a CompilerError without a source position.
func New(code, format string, args ...interface{}) *CompilerError {
	return &CompilerError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewAt creates a CompilerError anchored to a source position.
func NewAt(code, file string, line, column int, format string, args ...interface{}) *CompilerError {
	return &CompilerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Line:    line,
		Column:  column,
	}
}
