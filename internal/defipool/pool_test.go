package defipool

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecorenet/corebot/internal/submitter"
)

var testPoolAddr = common.HexToAddress("0x4444444444444444444444444444444444444444")

type captureSubmitter struct {
	requests []submitter.Request
	outcome  submitter.Outcome
}

func (c *captureSubmitter) SubmitAndConfirm(_ context.Context, req submitter.Request) (submitter.Outcome, error) {
	c.requests = append(c.requests, req)
	return c.outcome, nil
}

func newTestPool(t *testing.T) (*Pool, *captureSubmitter) {
	t.Helper()
	sub := &captureSubmitter{outcome: submitter.Outcome{Status: submitter.StatusSuccess}}
	p, err := New(sub, testPoolAddr, nil)
	require.NoError(t, err)
	return p, sub
}

func selector(sig string) []byte {
	return gethcrypto.Keccak256([]byte(sig))[:4]
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, testPoolAddr, nil)
	assert.Error(t, err)
	_, err = New(&captureSubmitter{}, common.Address{}, nil)
	assert.Error(t, err)
}

func TestLend(t *testing.T) {
	t.Parallel()

	p, sub := newTestPool(t)
	amount := big.NewInt(1_000_000_000_000_000_000)

	outcome, err := p.Lend(context.Background(), amount)
	require.NoError(t, err)
	assert.Equal(t, submitter.StatusSuccess, outcome.Status)

	require.Len(t, sub.requests, 1)
	req := sub.requests[0]
	assert.Equal(t, testPoolAddr, req.To)
	assert.Equal(t, selector("lend()"), req.Data, "lend carries no arguments")
	assert.Equal(t, amount, req.Value, "the lent amount travels as the transaction value")
}

func TestBorrow(t *testing.T) {
	t.Parallel()

	p, sub := newTestPool(t)
	amount := big.NewInt(500)

	_, err := p.Borrow(context.Background(), amount)
	require.NoError(t, err)

	require.Len(t, sub.requests, 1)
	req := sub.requests[0]
	assert.Equal(t, selector("borrow(uint256)"), req.Data[:4])
	assert.Equal(t, int64(0), req.Value.Int64(), "borrow sends no value")

	args, err := poolABI.Methods["borrow"].Inputs.Unpack(req.Data[4:])
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, amount, args[0])
}

func TestRepay(t *testing.T) {
	t.Parallel()

	p, sub := newTestPool(t)
	amount := big.NewInt(250)

	_, err := p.Repay(context.Background(), amount)
	require.NoError(t, err)

	require.Len(t, sub.requests, 1)
	req := sub.requests[0]
	assert.Equal(t, selector("repay()"), req.Data)
	assert.Equal(t, amount, req.Value)
}

func TestAmountValidation(t *testing.T) {
	t.Parallel()

	p, sub := newTestPool(t)
	ctx := context.Background()

	for _, bad := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		_, err := p.Lend(ctx, bad)
		assert.Error(t, err)
		_, err = p.Borrow(ctx, bad)
		assert.Error(t, err)
		_, err = p.Repay(ctx, bad)
		assert.Error(t, err)
	}
	assert.Empty(t, sub.requests, "invalid amounts never reach the chain")
}
