// Package submitter builds, signs and broadcasts a contract call, then polls
// for its receipt until it resolves or the attempt budget runs out.
package submitter

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"
)

// Backend is the narrow RPC surface the submitter depends on.
// *ethclient.Client satisfies it.
type Backend interface {
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Request is one prepared on-chain call. Gas price and sender key come from
// the submitter's configuration; GasLimit 0 falls back to the configured one.
type Request struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

// Status classifies a terminal outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusUnresolved
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// Outcome is the terminal result of one submission. Receipt is nil only for
// StatusUnresolved; the transaction may still confirm later, so an unresolved
// outcome must not be treated as a failure.
type Outcome struct {
	Status  Status
	TxHash  common.Hash
	Receipt *types.Receipt
}

// RetryPolicy bounds the receipt poll loop: MaxAttempts checks at a constant
// Interval, the whole loop additionally capped by MaxTotalWait.
type RetryPolicy struct {
	MaxAttempts  int
	Interval     time.Duration
	MaxTotalWait time.Duration
}

// DefaultRetryPolicy is 10 checks, 5s apart, with a 120s total cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 10, Interval: 5 * time.Second, MaxTotalWait: 120 * time.Second}
}

// Config carries everything the submitter needs; it never reads the
// environment itself.
type Config struct {
	Backend       Backend
	ChainID       *big.Int
	PrivateKeyHex string
	GasPrice      *big.Int // wei, fixed; not fetched from the network
	GasLimit      uint64
	Policy        RetryPolicy
	Logger        hclog.Logger
}

type Submitter struct {
	backend  Backend
	chainID  *big.Int
	key      *ecdsa.PrivateKey
	sender   common.Address
	gasPrice *big.Int
	gasLimit uint64
	policy   RetryPolicy
	interval retry.Backoff // stateless constant backoff, shared across calls
	logger   hclog.Logger
}

func New(cfg Config) (*Submitter, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend is nil")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("chain id is not set")
	}
	key, err := hexToECDSAPriv(cfg.PrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if cfg.GasPrice == nil || cfg.GasPrice.Sign() <= 0 {
		return nil, errors.New("gas price must be positive")
	}
	if cfg.GasLimit == 0 {
		return nil, errors.New("gas limit is not set")
	}
	pol := cfg.Policy
	if pol.MaxAttempts <= 0 {
		pol.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if pol.Interval <= 0 {
		pol.Interval = DefaultRetryPolicy().Interval
	}
	interval, err := retry.NewConstant(pol.Interval)
	if err != nil {
		return nil, fmt.Errorf("retry interval: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Submitter{
		backend:  cfg.Backend,
		chainID:  new(big.Int).Set(cfg.ChainID),
		key:      key,
		sender:   gethcrypto.PubkeyToAddress(key.PublicKey),
		gasPrice: new(big.Int).Set(cfg.GasPrice),
		gasLimit: cfg.GasLimit,
		policy:   pol,
		interval: interval,
		logger:   logger.Named("submitter"),
	}, nil
}

// Sender is the address derived from the configured private key.
func (s *Submitter) Sender() common.Address { return s.sender }

// SenderBalance reads the sender's current native balance.
func (s *Submitter) SenderBalance(ctx context.Context) (*big.Int, error) {
	return s.backend.BalanceAt(ctx, s.sender, nil)
}

// SubmitAndConfirm signs and broadcasts the request, then polls for its
// receipt. The nonce is re-read from the chain on every call; nothing is
// cached across submissions, so back-to-back calls for the same sender race
// unless the caller waits for the nonce to advance.
//
// Broadcast failures return an error and no polling happens. Once broadcast
// succeeds the result is always an Outcome: Success or Failure when a receipt
// arrives within the attempt budget, Unresolved otherwise.
func (s *Submitter) SubmitAndConfirm(ctx context.Context, req Request) (Outcome, error) {
	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}
	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = s.gasLimit
	}

	nonce, err := s.backend.NonceAt(ctx, s.sender, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("nonce for %s: %w", s.sender.Hex(), err)
	}

	to := req.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: new(big.Int).Set(s.gasPrice),
		Gas:      gasLimit,
		To:       &to,
		Value:    new(big.Int).Set(value),
		Data:     req.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return Outcome{}, fmt.Errorf("sign: %w", err)
	}

	s.logger.Debug("built transaction",
		"to", to.Hex(), "value", fmtEther(value), "gas", gasLimit,
		"gasPrice", fmtGwei(s.gasPrice)+" gwei", "nonce", nonce)

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return Outcome{}, fmt.Errorf("broadcast: %w", err)
	}
	s.logger.Info("transaction sent", "hash", signed.Hash().Hex(), "nonce", nonce)

	return s.waitReceipt(ctx, signed.Hash())
}

// waitReceipt polls per the retry policy. Transient poll errors count as
// attempts and do not abort the loop.
func (s *Submitter) waitReceipt(ctx context.Context, hash common.Hash) (Outcome, error) {
	waitCtx := ctx
	if s.policy.MaxTotalWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.policy.MaxTotalWait)
		defer cancel()
	}

	attempt := 0
	var rcpt *types.Receipt
	backoff := retry.WithMaxRetries(uint64(s.policy.MaxAttempts-1), s.interval)
	err := retry.Do(waitCtx, backoff, func(ctx context.Context) error {
		attempt++
		r, err := s.backend.TransactionReceipt(ctx, hash)
		if err != nil {
			s.logger.Debug("receipt check failed", "attempt", attempt, "err", err)
			return retry.RetryableError(err)
		}
		if r == nil {
			return retry.RetryableError(errors.New("no receipt yet"))
		}
		rcpt = r
		return nil
	})
	if err != nil {
		s.logger.Error("could not retrieve transaction receipt",
			"hash", hash.Hex(), "attempts", attempt)
		return Outcome{Status: StatusUnresolved, TxHash: hash}, nil
	}

	if rcpt.Status == types.ReceiptStatusSuccessful {
		s.logger.Info("transaction succeeded", "hash", hash.Hex(), "gasUsed", rcpt.GasUsed)
		return Outcome{Status: StatusSuccess, TxHash: hash, Receipt: rcpt}, nil
	}
	s.logger.Error("transaction failed", "hash", hash.Hex(), "gasUsed", rcpt.GasUsed)
	return Outcome{Status: StatusFailure, TxHash: hash, Receipt: rcpt}, nil
}
