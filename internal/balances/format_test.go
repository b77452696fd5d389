package balances

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUnits(t *testing.T) {
	t.Parallel()

	wei := func(s string) *big.Int {
		v, _ := new(big.Int).SetString(s, 10)
		return v
	}

	cases := []struct {
		name     string
		raw      *big.Int
		decimals int
		places   int
		want     string
	}{
		{"nil", nil, 18, 3, "0"},
		{"integer token", big.NewInt(1500), 0, 0, "1'500"},
		{"large integer token", big.NewInt(1234567), 0, 0, "1'234'567"},
		{"small integer token", big.NewInt(999), 0, 0, "999"},
		{"native three places", wei("12345050000000000000000"), 18, 3, "12'345.050"},
		{"native truncates", wei("1999999999999999999"), 18, 3, "1.999"},
		{"zero", big.NewInt(0), 18, 3, "0.000"},
		{"sub unit", wei("50000000000000000"), 18, 3, "0.050"},
		{"no places drops fraction", wei("1500000000000000000"), 18, 0, "1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatUnits(tc.raw, tc.decimals, tc.places))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", groupThousands("0"))
	assert.Equal(t, "100", groupThousands("100"))
	assert.Equal(t, "1'000", groupThousands("1000"))
	assert.Equal(t, "12'345'678", groupThousands("12345678"))
	assert.Equal(t, "-1'234", groupThousands("-1234"))
}

func TestDefaultTokens(t *testing.T) {
	t.Parallel()

	tokens := DefaultTokens()
	assert.Len(t, tokens, 10)
	assert.Equal(t, "POL", tokens[0].Symbol)
	assert.Empty(t, tokens[0].Contract, "POL is the native currency")
	assert.Equal(t, 18, tokens[0].Decimals)
	for _, tok := range tokens[1:] {
		assert.Equal(t, 0, tok.Decimals, tok.Symbol)
		assert.Len(t, tok.Contract, 42, tok.Symbol)
	}
}
