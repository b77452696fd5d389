package config

import (
	"errors"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings keeps all configuration options.
// Naming mirrors the existing env keys from the .env files.
type Settings struct {
	RPCURL          string
	ChainID         int64
	PrivateKeyHex   string
	WalletAddress   string
	ContractAddress string
	PoolAddress     string

	GasLimit     uint64
	GasPriceGwei string // decimal gwei, converted with GasPriceWei

	ReceiptAttempts int
	ReceiptInterval time.Duration
	MaxTotalWait    time.Duration
	InterTxDelay    time.Duration

	DistrictsPath string

	EtherscanAPIKey string
	TelegramToken   string
	TelegramChatID  string

	LogLevel string
	LogFile  string
}

// Load reads settings from environment supporting both UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				return v
			}
		}
		return def
	}
	getInt := func(keys []string, def int) int {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
		return def
	}
	getInt64 := func(keys []string, def int64) int64 {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
		return def
	}
	getSeconds := func(keys []string, def time.Duration) time.Duration {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
		return def
	}

	st := Settings{}
	st.RPCURL = get([]string{"rpc_url", "RPC_URL"}, "https://polygon-rpc.com")
	st.ChainID = getInt64([]string{"chain_id", "CHAIN_ID"}, 137)
	st.PrivateKeyHex = get([]string{"private_key", "PRIVATE_KEY"}, "")
	st.WalletAddress = get([]string{"wallet_address", "WALLET_ADDRESS"}, "")
	st.ContractAddress = get([]string{"contract_address", "CONTRACT_ADDRESS"}, "0x0B00a466AD7e747D28F599c8ecd701EEC4C2E99f")
	st.PoolAddress = get([]string{"pool_address", "POOL_ADDRESS"}, "")

	st.GasLimit = uint64(getInt64([]string{"gas_limit", "GAS_LIMIT"}, 102000))
	st.GasPriceGwei = get([]string{"gas_price_gwei", "GAS_PRICE_GWEI"}, "50.126386178")

	st.ReceiptAttempts = getInt([]string{"receipt_attempts", "RECEIPT_ATTEMPTS"}, 10)
	st.ReceiptInterval = getSeconds([]string{"receipt_interval_sec", "RECEIPT_INTERVAL_SEC"}, 5*time.Second)
	st.MaxTotalWait = getSeconds([]string{"max_total_wait_sec", "MAX_TOTAL_WAIT_SEC"}, 120*time.Second)
	st.InterTxDelay = getSeconds([]string{"inter_tx_delay_sec", "INTER_TX_DELAY_SEC"}, 2*time.Second)

	st.DistrictsPath = get([]string{"districts_path", "DISTRICTS_PATH"}, "transaction_data.json")

	st.EtherscanAPIKey = get([]string{"etherscan_api_key", "ETHERSCAN_API_KEY"}, "")
	st.TelegramToken = get([]string{"telegram_token", "TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"}, "")
	st.TelegramChatID = get([]string{"telegram_chat_id", "TELEGRAM_CHAT_ID"}, "")

	st.LogLevel = get([]string{"log_level", "LOG_LEVEL"}, "info")
	st.LogFile = get([]string{"log_file", "LOG_FILE"}, "")

	return st
}

// GasPriceWei converts the configured decimal gwei value to wei.
func (s Settings) GasPriceWei() (*big.Int, error) {
	return GweiToWei(s.GasPriceGwei)
}

// GweiToWei parses a decimal gwei string ("50.126386178") into exact wei.
// Sub-wei precision (more than 9 decimal places) is rejected.
func GweiToWei(s string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, errors.New("invalid gwei value: " + s)
	}
	if r.Sign() <= 0 {
		return nil, errors.New("gas price must be positive")
	}
	r.Mul(r, new(big.Rat).SetInt64(1_000_000_000))
	if !r.IsInt() {
		return nil, errors.New("gas price has sub-wei precision: " + s)
	}
	return new(big.Int).Set(r.Num()), nil
}
