package position

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineOffsets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"empty", "", []int{0}},
		{"no trailing newline", "ab\ncd", []int{0, 3}},
		{"trailing newline", "ab\ncd\n", []int{0, 3, 6}},
		{"blank lines", "\n\n", []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, LineOffsets(tt.text))
		})
	}
}

func TestIndex_Span(t *testing.T) {
	ix := New("one\ntwo\nthree\n")
	start, end := ix.Span(1, 2)
	require.Equal(t, 4, start)
	require.Equal(t, 8, end)

	start, end = ix.Span(2, 10)
	require.Equal(t, 8, start)
	require.Equal(t, 14, end)
}

func TestIndex_LineAndColumn(t *testing.T) {
	ix := New("one\ntwo\nthree")
	require.Equal(t, 1, ix.LineAt(0))
	require.Equal(t, 1, ix.LineAt(3))
	require.Equal(t, 2, ix.LineAt(4))
	require.Equal(t, 3, ix.LineAt(12))
	require.Equal(t, 1, ix.ColumnAt(4))
	require.Equal(t, 3, ix.ColumnAt(10))
}
