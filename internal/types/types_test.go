package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLVMType(t *testing.T) {
	tests := []struct {
		surface string
		want    string
	}{
		{"i8", "i8"},
		{"u8", "i8"},
		{"i16", "i16"},
		{"ui16", "i16"},
		{"i32", "i32"},
		{"ui32", "i32"},
		{"i64", "i64"},
		{"ui64", "i64"},
		{"int", "i64"},
		{"float", "double"},
		{"bool", "i1"},
		{"tribool", "i8"},
		{"str", "i8*"},
		{"list", "i8*"},
		{"dict", "i8*"},
		{"void", "void"},
		{"%player*", "%player*"},
		{"mystery", "i8*"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LLVMType(tt.surface), "surface type %s", tt.surface)
	}
}

func TestIntWidth(t *testing.T) {
	assert.Equal(t, uint(1), IntWidth("i1"))
	assert.Equal(t, uint(64), IntWidth("i64"))
	assert.Equal(t, uint(0), IntWidth("double"))
	assert.Equal(t, uint(0), IntWidth("i8*"))
}

func TestDefaultReturn(t *testing.T) {
	assert.Equal(t, "ret void", DefaultReturn("void"))
	assert.Equal(t, "ret i64 0", DefaultReturn("i64"))
	assert.Equal(t, "ret double 0.0", DefaultReturn("double"))
	assert.Equal(t, "ret i8* null", DefaultReturn("i8*"))
	assert.Equal(t, "ret %player* null", DefaultReturn("%player*"))
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, "player", ClassOf("%player*"))
	assert.Equal(t, "", ClassOf("i8*"))
	assert.Equal(t, "", ClassOf("i64"))
}
