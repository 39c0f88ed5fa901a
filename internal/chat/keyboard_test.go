package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyboardSingleColumn(t *testing.T) {
	kb := NewKeyboard()
	kb.Button("a", "main_order")
	kb.Button("b", "main_cart")

	rows := kb.Rows()
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 1)
	require.Equal(t, "a", rows[0][0].Label)
}

func TestKeyboardTwoColumns(t *testing.T) {
	kb := NewKeyboard()
	kb.Button("a", "city:1")
	kb.Button("b", "city:2")
	kb.Button("c", "back_to_main")
	kb.Adjust(2)

	rows := kb.Rows()
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 2)
	require.Len(t, rows[1], 1)
	require.Equal(t, "back_to_main", rows[1][0].Token)
}

func TestKeyboardEmpty(t *testing.T) {
	require.Nil(t, NewKeyboard().Rows())
}

func TestKeyboardAdjustClamped(t *testing.T) {
	kb := NewKeyboard()
	for i := 0; i < 4; i++ {
		kb.Button("x", "main_order")
	}
	kb.Adjust(5)
	require.Len(t, kb.Rows(), 2)

	kb.Adjust(0)
	require.Len(t, kb.Rows(), 4)
}
