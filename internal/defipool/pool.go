// Package defipool wraps the lending pool's lend/borrow/repay entry points
// around the transaction submitter.
package defipool

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"

	"github.com/thecorenet/corebot/internal/submitter"
)

var poolABI abi.ABI

func init() {
	const pool = `[
		{"inputs":[],"name":"lend","outputs":[],"stateMutability":"payable","type":"function"},
		{"inputs":[{"name":"amount","type":"uint256"}],"name":"borrow","outputs":[],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[],"name":"repay","outputs":[],"stateMutability":"payable","type":"function"}
	]`
	ab, _ := abi.JSON(strings.NewReader(pool))
	poolABI = ab
}

// TxSubmitter is the slice of the submitter the pool needs.
type TxSubmitter interface {
	SubmitAndConfirm(ctx context.Context, req submitter.Request) (submitter.Outcome, error)
}

type Pool struct {
	sub      TxSubmitter
	contract common.Address
	logger   hclog.Logger
}

func New(sub TxSubmitter, contract common.Address, logger hclog.Logger) (*Pool, error) {
	if sub == nil {
		return nil, errors.New("submitter is nil")
	}
	if contract == (common.Address{}) {
		return nil, errors.New("pool address is not set")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pool{sub: sub, contract: contract, logger: logger.Named("defipool")}, nil
}

func checkAmount(amountWei *big.Int) error {
	if amountWei == nil || amountWei.Sign() <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

// Lend deposits native currency into the pool; the amount travels as the
// transaction value.
func (p *Pool) Lend(ctx context.Context, amountWei *big.Int) (submitter.Outcome, error) {
	if err := checkAmount(amountWei); err != nil {
		return submitter.Outcome{}, err
	}
	data, err := poolABI.Pack("lend")
	if err != nil {
		return submitter.Outcome{}, err
	}
	p.logger.Info("lend", "amountWei", amountWei.String())
	return p.sub.SubmitAndConfirm(ctx, submitter.Request{To: p.contract, Data: data, Value: amountWei})
}

// Borrow draws the given amount from the pool against posted collateral.
func (p *Pool) Borrow(ctx context.Context, amountWei *big.Int) (submitter.Outcome, error) {
	if err := checkAmount(amountWei); err != nil {
		return submitter.Outcome{}, err
	}
	data, err := poolABI.Pack("borrow", amountWei)
	if err != nil {
		return submitter.Outcome{}, err
	}
	p.logger.Info("borrow", "amountWei", amountWei.String())
	return p.sub.SubmitAndConfirm(ctx, submitter.Request{To: p.contract, Data: data, Value: big.NewInt(0)})
}

// Repay pays down debt; the amount travels as the transaction value.
func (p *Pool) Repay(ctx context.Context, amountWei *big.Int) (submitter.Outcome, error) {
	if err := checkAmount(amountWei); err != nil {
		return submitter.Outcome{}, err
	}
	data, err := poolABI.Pack("repay")
	if err != nil {
		return submitter.Outcome{}, err
	}
	p.logger.Info("repay", "amountWei", amountWei.String())
	return p.sub.SubmitAndConfirm(ctx, submitter.Request{To: p.contract, Data: data, Value: amountWei})
}
