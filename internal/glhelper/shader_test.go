package glhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoLog(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"padded", "0(12) : error C1008: undefined variable \"vUV\"\n\x00\x00", "0(12) : error C1008: undefined variable \"vUV\""},
		{"several", "ERROR: 0:3: 'x' : undeclared\r\n  \nERROR: 1 compilation errors\n\x00", "ERROR: 0:3: 'x' : undeclared; ERROR: 1 compilation errors"},
		{"empty", "\x00", "no info log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, infoLog([]byte(tt.raw)))
		})
	}
}
