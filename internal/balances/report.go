package balances

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Report fetches every token balance for the wallet and renders one line per
// token, values left, symbols aligned right of the longest value. A failed
// token query becomes an inline error cell instead of aborting the report.
func (c *Etherscan) Report(ctx context.Context, wallet string, tokens []Token) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if !strings.HasPrefix(wallet, "0x") || len(wallet) != 42 {
		return "", errors.New("invalid wallet address format: " + wallet)
	}
	if len(tokens) == 0 {
		tokens = DefaultTokens()
	}

	maxSymbol := 0
	for _, t := range tokens {
		if len(t.Symbol) > maxSymbol {
			maxSymbol = len(t.Symbol)
		}
	}

	lines := make([]string, 0, len(tokens))
	for i, t := range tokens {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.delay):
			}
		}

		var cell string
		if t.Contract == "" {
			v, err := c.NativeBalance(ctx, wallet)
			if err != nil {
				c.logger.Warn("native balance query failed", "symbol", t.Symbol, "err", err)
				cell = "Error fetching balance - " + err.Error()
			} else {
				cell = FormatUnits(v, t.Decimals, t.Places)
			}
		} else {
			v, err := c.TokenBalance(ctx, t.Contract, wallet)
			if err != nil {
				c.logger.Warn("token balance query failed", "symbol", t.Symbol, "err", err)
				cell = "Error fetching balance - " + err.Error()
			} else {
				cell = FormatUnits(v, t.Decimals, t.Places)
			}
		}
		pad := maxSymbol - len(t.Symbol) + 5
		lines = append(lines, cell+strings.Repeat(" ", pad)+t.Symbol)
	}
	return strings.Join(lines, "\n"), nil
}
