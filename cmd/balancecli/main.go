// balancecli prints the wallet's token balance report and forwards it to
// Telegram when configured.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/thecorenet/corebot/internal/balances"
	"github.com/thecorenet/corebot/internal/config"
	"github.com/thecorenet/corebot/internal/logging"
	"github.com/thecorenet/corebot/internal/notify"
)

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var wallet string
	flag.StringVar(&wallet, "wallet", cfg.WalletAddress, "Wallet address to report on")
	flag.Parse()

	logger, err := logging.New("balancecli", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		die("log setup: " + err.Error())
	}
	if wallet == "" || cfg.EtherscanAPIKey == "" {
		die("set WALLET_ADDRESS and ETHERSCAN_API_KEY in your .env file")
	}

	client, err := balances.NewEtherscan(cfg.EtherscanAPIKey, cfg.ChainID, logger)
	if err != nil {
		die(err.Error())
	}

	ctx := context.Background()
	report, err := client.Report(ctx, wallet, balances.DefaultTokens())
	if err != nil {
		die("report: " + err.Error())
	}
	fmt.Println(report)

	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		logger.Info("telegram not configured, notification skipped")
		return
	}
	tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		logger.Warn("telegram setup failed", "err", err)
		return
	}
	if err := tg.Send(ctx, "Token Balances for "+wallet+":\n\n"+report); err != nil {
		logger.Warn("telegram notification failed", "err", err)
	}
}
