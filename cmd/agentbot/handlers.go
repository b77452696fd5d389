package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thecorenet/corebot/internal/balances"
	"github.com/thecorenet/corebot/internal/corenet"
	"github.com/thecorenet/corebot/internal/submitter"
)

const helpText = `Commands:
/balances [address] - token balance report
/synthesize - run fuel synthesis for the configured districts file
/mint <name> <location> - request a new district
/lend <amount> - lend POL into the pool
/borrow <amount> - borrow POL from the pool
/repay <amount> - repay pool debt
/help - this message`

func (b *bot) handle(ctx context.Context, text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch cmd {
	case "/balances":
		return b.handleBalances(ctx, args)
	case "/synthesize":
		return b.handleSynthesize(ctx)
	case "/mint":
		return b.handleMint(args)
	case "/lend":
		return b.handlePool(ctx, "lend", args)
	case "/borrow":
		return b.handlePool(ctx, "borrow", args)
	case "/repay":
		return b.handlePool(ctx, "repay", args)
	default:
		return helpText
	}
}

func (b *bot) handleBalances(ctx context.Context, args []string) string {
	if b.esc == nil {
		return "Balance reports are not configured (missing ETHERSCAN_API_KEY)."
	}
	wallet := b.wallet
	if len(args) > 0 {
		wallet = args[0]
	}
	if wallet == "" {
		return "No wallet address provided and none configured."
	}
	report, err := b.esc.Report(ctx, wallet, balances.DefaultTokens())
	if err != nil {
		return "Error checking balances: " + err.Error()
	}
	return "Token Balances for " + wallet + ":\n\n" + report
}

func (b *bot) handleSynthesize(ctx context.Context) string {
	if b.runner == nil {
		return "Synthesis is not configured (missing PRIVATE_KEY or CONTRACT_ADDRESS)."
	}
	districts, err := corenet.LoadDistricts(b.districts)
	if err != nil {
		return "Error loading districts: " + err.Error()
	}
	if len(districts) == 0 {
		return "No districts found for synthesis in " + b.districts
	}
	b.logger.Info("synthesis requested via telegram", "districts", len(districts))
	sum, runErr := b.runner.Run(ctx, districts)
	reply := "Synthesis Summary:\n" + sum.Text()
	if runErr != nil {
		reply += "\n\nErrors:\n" + runErr.Error()
	}
	return reply
}

func (b *bot) handleMint(args []string) string {
	if len(args) < 2 {
		return "Usage: /mint <name> <location>"
	}
	params := corenet.MintParams{Name: args[0], Location: args[1]}
	quote := corenet.QuoteMint(params)
	err := corenet.MintDistrict(params)
	if err != nil && !errors.Is(err, corenet.ErrMintNotImplemented) {
		return "Mint request rejected: " + err.Error()
	}
	reply := fmt.Sprintf("District Minting Request:\n\nName: %s\nLocation: %s\nEstimated cost: %s wei POL",
		params.Name, params.Location, quote.PolCostWei.String())
	for sym, amt := range quote.Resources {
		reply += fmt.Sprintf(", %d %s", amt, sym)
	}
	if err != nil {
		reply += "\n\n" + err.Error()
	}
	return reply
}

func (b *bot) handlePool(ctx context.Context, op string, args []string) string {
	if b.pool == nil {
		return "Pool operations are not configured (missing POOL_ADDRESS or PRIVATE_KEY)."
	}
	if len(args) < 1 {
		return "Usage: /" + op + " <amount>"
	}
	amount, err := corenet.NativeToWei(args[0])
	if err != nil || amount.Sign() <= 0 {
		return "Invalid amount: " + args[0]
	}

	var outcome submitter.Outcome
	switch op {
	case "lend":
		outcome, err = b.pool.Lend(ctx, amount)
	case "borrow":
		outcome, err = b.pool.Borrow(ctx, amount)
	case "repay":
		outcome, err = b.pool.Repay(ctx, amount)
	}
	if err != nil {
		return "Error performing " + op + ": " + err.Error()
	}
	return formatOutcome(op, outcome)
}

func formatOutcome(op string, o submitter.Outcome) string {
	switch o.Status {
	case submitter.StatusSuccess:
		return fmt.Sprintf("%s succeeded!\nTx: %s\nGas used: %d", op, o.TxHash.Hex(), o.Receipt.GasUsed)
	case submitter.StatusFailure:
		return fmt.Sprintf("%s transaction reverted.\nTx: %s\nGas used: %d", op, o.TxHash.Hex(), o.Receipt.GasUsed)
	default:
		return fmt.Sprintf("%s is still unconfirmed, check later.\nTx: %s", op, o.TxHash.Hex())
	}
}
