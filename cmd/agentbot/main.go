// agentbot long-polls Telegram and dispatches explicit commands to the game
// operations: balance reports, district synthesis, minting and the lending
// pool.
package main

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/thecorenet/corebot/internal/balances"
	"github.com/thecorenet/corebot/internal/config"
	"github.com/thecorenet/corebot/internal/corenet"
	"github.com/thecorenet/corebot/internal/defipool"
	"github.com/thecorenet/corebot/internal/logging"
	"github.com/thecorenet/corebot/internal/notify"
	"github.com/thecorenet/corebot/internal/submitter"
)

// newEthClientWithTimeout dials RPC with keep-alives and sane timeouts.
func newEthClientWithTimeout(rpcURL string) (*ethclient.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:       100,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
	rpcClient, err := rpc.DialHTTPWithClient(rpcURL, httpClient)
	if err != nil {
		return nil, err
	}
	return ethclient.NewClient(rpcClient), nil
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// bot bundles the wired operations; fields left nil reply with a
// configuration hint instead of acting.
type bot struct {
	tg     *notify.Telegram
	logger hclog.Logger

	wallet    string
	esc       *balances.Etherscan
	runner    *corenet.Runner
	districts string
	pool      *defipool.Pool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New("agentbot", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		die("log setup: " + err.Error())
	}
	tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		die("telegram: " + err.Error())
	}

	b := &bot{tg: tg, logger: logger, wallet: cfg.WalletAddress, districts: cfg.DistrictsPath}

	if cfg.EtherscanAPIKey != "" {
		if esc, err := balances.NewEtherscan(cfg.EtherscanAPIKey, cfg.ChainID, logger); err == nil {
			b.esc = esc
		}
	}

	if cfg.PrivateKeyHex != "" {
		sub, err := buildSubmitter(cfg, logger)
		if err != nil {
			die(err.Error())
		}
		logger.Info("using sender address", "address", sub.Sender().Hex())

		if common.IsHexAddress(cfg.ContractAddress) {
			runner, err := corenet.NewRunner(corenet.RunnerConfig{
				Submitter: sub,
				Contract:  common.HexToAddress(cfg.ContractAddress),
				Delay:     cfg.InterTxDelay,
				Notifier:  notify.Nop{}, // replies carry the summary already
				Logger:    logger,
			})
			if err != nil {
				die("runner: " + err.Error())
			}
			b.runner = runner
		}
		if common.IsHexAddress(cfg.PoolAddress) {
			pool, err := defipool.New(sub, common.HexToAddress(cfg.PoolAddress), logger)
			if err != nil {
				die("pool: " + err.Error())
			}
			b.pool = pool
		}
	}

	logger.Info("starting telegram agent")
	b.loop(context.Background())
}

func buildSubmitter(cfg config.Settings, logger hclog.Logger) (*submitter.Submitter, error) {
	gasPrice, err := cfg.GasPriceWei()
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	ec, err := newEthClientWithTimeout(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.RPCURL, err)
	}
	return submitter.New(submitter.Config{
		Backend:       ec,
		ChainID:       big.NewInt(cfg.ChainID),
		PrivateKeyHex: cfg.PrivateKeyHex,
		GasPrice:      gasPrice,
		GasLimit:      cfg.GasLimit,
		Policy: submitter.RetryPolicy{
			MaxAttempts:  cfg.ReceiptAttempts,
			Interval:     cfg.ReceiptInterval,
			MaxTotalWait: cfg.MaxTotalWait,
		},
		Logger: logger,
	})
}

func (b *bot) loop(ctx context.Context) {
	var offset int64
	for {
		ups, err := b.tg.Updates(ctx, offset, 10)
		if err != nil {
			b.logger.Warn("getUpdates failed", "err", err)
			time.Sleep(3 * time.Second)
			continue
		}
		for _, u := range ups {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			reply := b.handle(ctx, u.Message.Text)
			chatID := fmt.Sprintf("%d", u.Message.Chat.ID)
			if err := b.tg.SendTo(ctx, chatID, reply); err != nil {
				b.logger.Warn("reply failed", "chat", chatID, "err", err)
			}
		}
	}
}
