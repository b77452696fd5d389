package corenet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/thecorenet/corebot/internal/notify"
	"github.com/thecorenet/corebot/internal/submitter"
)

// TxSubmitter is the slice of the submitter the runner needs.
type TxSubmitter interface {
	SubmitAndConfirm(ctx context.Context, req submitter.Request) (submitter.Outcome, error)
}

// RunnerConfig wires the batch runner. Delay is the pause between districts
// that lets the sender's nonce advance on-chain before the next submission
// re-reads it; there is no other nonce-collision protection.
type RunnerConfig struct {
	Submitter TxSubmitter
	Contract  common.Address
	GasLimit  uint64 // 0 keeps the submitter's default
	Delay     time.Duration
	Notifier  notify.Notifier
	Logger    hclog.Logger
}

type Runner struct {
	sub      TxSubmitter
	contract common.Address
	gasLimit uint64
	delay    time.Duration
	notifier notify.Notifier
	logger   hclog.Logger
}

func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Submitter == nil {
		return nil, errors.New("submitter is nil")
	}
	if cfg.Contract == (common.Address{}) {
		return nil, errors.New("contract address is not set")
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{
		sub:      cfg.Submitter,
		contract: cfg.Contract,
		gasLimit: cfg.GasLimit,
		delay:    cfg.Delay,
		notifier: notifier,
		logger:   logger.Named("synthesis"),
	}, nil
}

// Summary aggregates the batch result. Unresolved districts are counted apart
// from failures: their transactions may still confirm.
type Summary struct {
	Total      int
	Succeeded  int
	Failed     int
	Unresolved int
}

func (s Summary) Text() string {
	return fmt.Sprintf("Processed: %d/%d districts\nSuccessful: %d/%d\nFailed: %d/%d\nUnresolved: %d/%d",
		s.Succeeded+s.Failed+s.Unresolved, s.Total,
		s.Succeeded, s.Total, s.Failed, s.Total, s.Unresolved, s.Total)
}

// Run submits one synthesis call per district, strictly in sequence, with the
// configured delay between districts. Per-district errors are collected, not
// fatal; the returned error is their aggregate. A best-effort notification
// with the summary is sent at the end.
func (r *Runner) Run(ctx context.Context, districts []District) (Summary, error) {
	sum := Summary{Total: len(districts)}
	var errs *multierror.Error

	for i, d := range districts {
		r.logger.Info("processing district", "districtId", d.DistrictID, "index", i+1, "total", sum.Total)

		outcome, err := r.submitDistrict(ctx, d)
		if err != nil {
			sum.Failed++
			errs = multierror.Append(errs, fmt.Errorf("district %d: %w", d.DistrictID, err))
			r.logger.Error("district submission failed", "districtId", d.DistrictID, "err", err)
		} else {
			switch outcome.Status {
			case submitter.StatusSuccess:
				sum.Succeeded++
			case submitter.StatusFailure:
				sum.Failed++
				errs = multierror.Append(errs, fmt.Errorf("district %d: transaction %s reverted", d.DistrictID, outcome.TxHash.Hex()))
			case submitter.StatusUnresolved:
				sum.Unresolved++
				r.logger.Warn("district unresolved, transaction may still confirm",
					"districtId", d.DistrictID, "hash", outcome.TxHash.Hex())
			}
		}

		if i < len(districts)-1 && r.delay > 0 {
			select {
			case <-ctx.Done():
				return sum, multierror.Append(errs, ctx.Err()).ErrorOrNil()
			case <-time.After(r.delay):
			}
		}
	}

	r.logger.Info("batch finished",
		"total", sum.Total, "succeeded", sum.Succeeded, "failed", sum.Failed, "unresolved", sum.Unresolved)
	if err := r.notifier.Send(ctx, sum.Text()); err != nil {
		r.logger.Warn("summary notification failed", "err", err)
	}
	return sum, errs.ErrorOrNil()
}

func (r *Runner) submitDistrict(ctx context.Context, d District) (submitter.Outcome, error) {
	message, err := d.MessageJSON()
	if err != nil {
		return submitter.Outcome{}, fmt.Errorf("message: %w", err)
	}
	amount, err := d.TransferAmountWei()
	if err != nil {
		return submitter.Outcome{}, err
	}
	data, err := EncodeEmitEvent(d.EventID(), message)
	if err != nil {
		return submitter.Outcome{}, fmt.Errorf("encode calldata: %w", err)
	}
	return r.sub.SubmitAndConfirm(ctx, submitter.Request{
		To:       r.contract,
		Data:     data,
		Value:    amount,
		GasLimit: r.gasLimit,
	})
}
