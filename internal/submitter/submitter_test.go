package submitter

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

// fakeBackend implements Backend in memory. receiptAfter is the poll attempt
// on which the receipt becomes visible; 0 means never.
type fakeBackend struct {
	nonce        uint64
	balance      *big.Int
	sendErr      error
	sent         []*types.Transaction
	receipt      *types.Receipt
	receiptAfter int
	polls        int
}

func (f *fakeBackend) NonceAt(context.Context, common.Address, *big.Int) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.polls++
	if f.receiptAfter > 0 && f.polls >= f.receiptAfter {
		return f.receipt, nil
	}
	return nil, ethereum.NotFound
}

func newTestSubmitter(t *testing.T, backend *fakeBackend) *Submitter {
	t.Helper()

	sub, err := New(Config{
		Backend:       backend,
		ChainID:       big.NewInt(137),
		PrivateKeyHex: testKeyHex,
		GasPrice:      big.NewInt(50_126_386_178),
		GasLimit:      102_000,
		Policy: RetryPolicy{
			MaxAttempts:  10,
			Interval:     time.Millisecond,
			MaxTotalWait: time.Second,
		},
	})
	require.NoError(t, err)

	return sub
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	valid := Config{
		Backend:       &fakeBackend{},
		ChainID:       big.NewInt(137),
		PrivateKeyHex: testKeyHex,
		GasPrice:      big.NewInt(1),
		GasLimit:      21_000,
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nil backend", func(c *Config) { c.Backend = nil }},
		{"nil chain id", func(c *Config) { c.ChainID = nil }},
		{"empty key", func(c *Config) { c.PrivateKeyHex = "" }},
		{"bad key", func(c *Config) { c.PrivateKeyHex = "0xzz" }},
		{"nil gas price", func(c *Config) { c.GasPrice = nil }},
		{"zero gas limit", func(c *Config) { c.GasLimit = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}

	sub, err := New(valid)
	require.NoError(t, err)
	key, err := gethcrypto.HexToECDSA(testKeyHex[2:])
	require.NoError(t, err)
	assert.Equal(t, gethcrypto.PubkeyToAddress(key.PublicKey), sub.Sender())
}

func TestSubmitAndConfirmSuccess(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		nonce: 7,
		receipt: &types.Receipt{
			Status:  types.ReceiptStatusSuccessful,
			GasUsed: 93_150,
		},
		receiptAfter: 3,
	}
	sub := newTestSubmitter(t, backend)

	value, _ := new(big.Int).SetString("50000000000000000", 10) // 0.05 in wei
	outcome, err := sub.SubmitAndConfirm(context.Background(), Request{
		To:    common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f"),
		Data:  []byte{0x01, 0x02},
		Value: value,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, outcome.Status)
	require.NotNil(t, outcome.Receipt)
	assert.Equal(t, uint64(93_150), outcome.Receipt.GasUsed)
	assert.Equal(t, 3, backend.polls)

	require.Len(t, backend.sent, 1)
	tx := backend.sent[0]
	assert.Equal(t, outcome.TxHash, tx.Hash())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(102_000), tx.Gas())
	assert.Equal(t, big.NewInt(50_126_386_178), tx.GasPrice())
	assert.Equal(t, value, tx.Value())
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
}

func TestSubmitAndConfirmUnresolved(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{} // receipt never appears
	sub := newTestSubmitter(t, backend)

	outcome, err := sub.SubmitAndConfirm(context.Background(), Request{
		To: common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f"),
	})
	require.NoError(t, err, "exhausting the attempt budget is not an error")

	assert.Equal(t, StatusUnresolved, outcome.Status)
	assert.Nil(t, outcome.Receipt)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, backend.sent[0].Hash(), outcome.TxHash, "hash must identify the in-flight transaction")
	assert.Equal(t, 10, backend.polls)
}

func TestSubmitAndConfirmBroadcastError(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{sendErr: errors.New("nonce too low")}
	sub := newTestSubmitter(t, backend)

	_, err := sub.SubmitAndConfirm(context.Background(), Request{
		To: common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f"),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "broadcast")
	assert.Zero(t, backend.polls, "no receipt polling after a failed broadcast")
}

func TestSubmitAndConfirmReverted(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		receipt:      &types.Receipt{Status: types.ReceiptStatusFailed, GasUsed: 102_000},
		receiptAfter: 1,
	}
	sub := newTestSubmitter(t, backend)

	outcome, err := sub.SubmitAndConfirm(context.Background(), Request{
		To: common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, outcome.Status)
	require.NotNil(t, outcome.Receipt)
	assert.Equal(t, uint64(102_000), outcome.Receipt.GasUsed)
}

func TestNonceReadPerSubmission(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		nonce:        3,
		receipt:      &types.Receipt{Status: types.ReceiptStatusSuccessful},
		receiptAfter: 1,
	}
	sub := newTestSubmitter(t, backend)
	to := common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f")

	_, err := sub.SubmitAndConfirm(context.Background(), Request{To: to})
	require.NoError(t, err)

	backend.nonce = 4
	backend.polls = 0
	_, err = sub.SubmitAndConfirm(context.Background(), Request{To: to})
	require.NoError(t, err)

	require.Len(t, backend.sent, 2)
	assert.Equal(t, uint64(3), backend.sent[0].Nonce())
	assert.Equal(t, uint64(4), backend.sent[1].Nonce(), "nonce is re-read from the chain on every call")
}

// nonceCheckingBackend rejects a second broadcast reusing an already seen
// nonce, the way the network does when the count has not advanced yet.
type nonceCheckingBackend struct {
	fakeBackend
	seen map[uint64]bool
}

func (f *nonceCheckingBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if f.seen == nil {
		f.seen = map[uint64]bool{}
	}
	if f.seen[tx.Nonce()] {
		return errors.New("nonce too low")
	}
	f.seen[tx.Nonce()] = true
	return f.fakeBackend.SendTransaction(ctx, tx)
}

func TestNonceConflictWithoutDelay(t *testing.T) {
	t.Parallel()

	backend := &nonceCheckingBackend{fakeBackend: fakeBackend{
		nonce:        3,
		receipt:      &types.Receipt{Status: types.ReceiptStatusSuccessful},
		receiptAfter: 1,
	}}
	sub, err := New(Config{
		Backend:       backend,
		ChainID:       big.NewInt(137),
		PrivateKeyHex: testKeyHex,
		GasPrice:      big.NewInt(50_126_386_178),
		GasLimit:      102_000,
		Policy:        RetryPolicy{MaxAttempts: 10, Interval: time.Millisecond, MaxTotalWait: time.Second},
	})
	require.NoError(t, err)
	to := common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f")

	_, err = sub.SubmitAndConfirm(context.Background(), Request{To: to})
	require.NoError(t, err)

	// The chain's count has not advanced, so the second submission resolves
	// the same nonce and is rejected at broadcast.
	backend.polls = 0
	_, err = sub.SubmitAndConfirm(context.Background(), Request{To: to})
	require.Error(t, err)
	assert.ErrorContains(t, err, "nonce too low")
	assert.Zero(t, backend.polls)
}

func TestRequestGasLimitOverride(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		receipt:      &types.Receipt{Status: types.ReceiptStatusSuccessful},
		receiptAfter: 1,
	}
	sub := newTestSubmitter(t, backend)

	_, err := sub.SubmitAndConfirm(context.Background(), Request{
		To:       common.HexToAddress("0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f"),
		GasLimit: 250_000,
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, uint64(250_000), backend.sent[0].Gas())
}

func TestSenderBalance(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{balance: big.NewInt(123)}
	sub := newTestSubmitter(t, backend)

	bal, err := sub.SenderBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(123), bal)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failure", StatusFailure.String())
	assert.Equal(t, "unresolved", StatusUnresolved.String())
	assert.Equal(t, "unknown", Status(42).String())
}
