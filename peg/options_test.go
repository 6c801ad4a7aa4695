package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeASTOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{"nil bag", nil, nil},
		{"empty bag", map[string]any{}, nil},
		{"single name", map[string]any{"ignore": "ws"}, []string{"ws"}},
		{"name list", map[string]any{"ignore": []string{"ws", "s"}}, []string{"ws", "s"}},
		{"loose list", map[string]any{"ignore": []any{"ws", "s"}}, []string{"ws", "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := DecodeASTOptions(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Ignore)
		})
	}
}

func TestDecodeASTOptionsRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeASTOptions(map[string]any{"ignored": "ws"})
	require.Error(t, err)
}
