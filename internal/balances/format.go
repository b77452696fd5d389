package balances

import (
	"math/big"
	"strings"
)

// FormatUnits renders a raw token amount with apostrophes as thousand
// separators, scaled by the token's decimals and truncated to the requested
// display places ("1'234'567.050").
func FormatUnits(raw *big.Int, decimals, places int) string {
	if raw == nil {
		return "0"
	}
	x := new(big.Int).Set(raw)
	if decimals <= 0 {
		return groupThousands(x.String())
	}
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart, frac := new(big.Int).QuoRem(x, base, new(big.Int))
	out := groupThousands(intPart.String())
	if places <= 0 {
		return out
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	fracScaled := new(big.Int).Mul(frac, scale)
	fracScaled.Quo(fracScaled, base)
	fs := fracScaled.String()
	if len(fs) < places {
		fs = strings.Repeat("0", places-len(fs)) + fs
	}
	return out + "." + fs
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
