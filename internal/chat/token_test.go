package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTokenNoArg(t *testing.T) {
	tok, err := ParseToken("main_cart")
	require.NoError(t, err)
	require.Equal(t, VerbMainCart, tok.Verb)

	_, err = ParseToken("main_cart:7")
	require.ErrorIs(t, err, ErrBadToken)
}

func TestParseTokenID(t *testing.T) {
	tok, err := ParseToken("add_to_cart:42")
	require.NoError(t, err)
	require.Equal(t, VerbAddToCart, tok.Verb)
	require.Equal(t, int64(42), tok.ID)

	for _, raw := range []string{"add_to_cart", "add_to_cart:", "add_to_cart:abc", "add_to_cart:0", "add_to_cart:-5"} {
		_, err := ParseToken(raw)
		require.ErrorIs(t, err, ErrBadToken, raw)
	}
}

func TestParseTokenField(t *testing.T) {
	tok, err := ParseToken("field:price")
	require.NoError(t, err)
	require.Equal(t, VerbField, tok.Verb)
	require.Equal(t, FieldPrice, tok.Field)

	_, err = ParseToken("field:photo")
	require.ErrorIs(t, err, ErrBadToken)
}

func TestParseTokenUnknownVerb(t *testing.T) {
	for _, raw := range []string{"", "nonsense", "drop_table:1", "city name"} {
		_, err := ParseToken(raw)
		require.ErrorIs(t, err, ErrBadToken, raw)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for _, raw := range []string{"city:3", "order_accept:12", "field:name", "back_to_main"} {
		tok, err := ParseToken(raw)
		require.NoError(t, err)
		require.Equal(t, raw, tok.String())
	}
}

func TestTokenBuilders(t *testing.T) {
	require.Equal(t, "buy:9", IDToken(VerbBuy, 9))
	require.Equal(t, "field:description", FieldToken(FieldDescription))
}
