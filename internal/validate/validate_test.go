package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhone(t *testing.T) {
	for _, ok := range []string{"0501234567", "+380501234567", " 0671112233 "} {
		require.NoError(t, Phone(ok), ok)
	}
	for _, bad := range []string{"", "050123456", "05012345678", "380501234567", "+38050123456", "+490501234567", "телефон"} {
		require.ErrorIs(t, Phone(bad), ErrPhone, bad)
	}
}

func TestQuantity(t *testing.T) {
	n, err := Quantity(" 5 ")
	require.NoError(t, err)
	require.Equal(t, 5, n)

	for _, bad := range []string{"0", "11", "-1", "abc", "2.5", ""} {
		_, err := Quantity(bad)
		require.ErrorIs(t, err, ErrQuantity, bad)
	}

	for _, edge := range []string{"1", "10"} {
		_, err := Quantity(edge)
		require.NoError(t, err, edge)
	}
}

func TestPrice(t *testing.T) {
	p, err := Price("199.99")
	require.NoError(t, err)
	require.Equal(t, 199.99, p)

	p, err = Price("0")
	require.NoError(t, err)
	require.Equal(t, 0.0, p)

	for _, bad := range []string{"-1", "ціна", ""} {
		_, err := Price(bad)
		require.ErrorIs(t, err, ErrPrice, bad)
	}
}
