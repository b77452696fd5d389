// synthcli submits one fuel-synthesis transaction per district from a JSON
// batch file and reports the confirmed outcome of each.
package main

import (
	"context"
	"flag"
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

	"github.com/thecorenet/corebot/internal/config"
	"github.com/thecorenet/corebot/internal/corenet"
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

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var inputPath string
	flag.StringVar(&inputPath, "input", cfg.DistrictsPath, "Path to JSON batch file with a districts array")
	flag.Parse()

	logger, err := logging.New("synthcli", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		die("log setup: " + err.Error())
	}

	if cfg.PrivateKeyHex == "" {
		die("private key not found, set PRIVATE_KEY in your .env file")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		die("invalid contract address: " + cfg.ContractAddress)
	}
	gasPrice, err := cfg.GasPriceWei()
	if err != nil {
		die("gas price: " + err.Error())
	}

	ec, err := newEthClientWithTimeout(cfg.RPCURL)
	if err != nil {
		die("failed to connect to " + cfg.RPCURL + ": " + err.Error())
	}
	defer ec.Close()
	logger.Info("connected to chain", "rpc", cfg.RPCURL, "chainId", cfg.ChainID)

	sub, err := submitter.New(submitter.Config{
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
	if err != nil {
		die("submitter: " + err.Error())
	}
	logger.Info("using sender address", "address", sub.Sender().Hex())

	ctx := context.Background()
	bal, err := sub.SenderBalance(ctx)
	if err != nil {
		die("balance check: " + err.Error())
	}
	if bal.Sign() <= 0 {
		die("insufficient native balance for sender " + sub.Sender().Hex())
	}

	districts, err := corenet.LoadDistricts(inputPath)
	if err != nil {
		die(err.Error())
	}
	if len(districts) == 0 {
		logger.Info("no districts in batch file, nothing to do")
		return
	}
	logger.Info("batch loaded", "districts", len(districts))

	runner, err := corenet.NewRunner(corenet.RunnerConfig{
		Submitter: sub,
		Contract:  common.HexToAddress(cfg.ContractAddress),
		Delay:     cfg.InterTxDelay,
		Notifier:  makeNotifier(cfg, logger),
		Logger:    logger,
	})
	if err != nil {
		die("runner: " + err.Error())
	}

	sum, runErr := runner.Run(ctx, districts)
	fmt.Println("--- SUMMARY ---")
	fmt.Println(sum.Text())
	if runErr != nil {
		logger.Error("batch completed with errors", "err", runErr)
	}
	switch {
	case sum.Succeeded == sum.Total:
		logger.Info("all transactions executed successfully")
	case sum.Succeeded > 0:
		logger.Info("partial success", "succeeded", sum.Succeeded, "total", sum.Total)
	default:
		logger.Error("all transactions failed")
	}
}

func makeNotifier(cfg config.Settings, logger hclog.Logger) notify.Notifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		logger.Info("telegram not configured, skipping notifications")
		return notify.Nop{}
	}
	tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		logger.Warn("telegram setup failed, skipping notifications", "err", err)
		return notify.Nop{}
	}
	return tg
}
