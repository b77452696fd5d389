package balances

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const defaultAPIBase = "https://api.etherscan.io/v2/api"

// Etherscan is a minimal client for the v2 account endpoints. The chain is
// selected with the chainid parameter (137 for Polygon).
type Etherscan struct {
	apiKey  string
	chainID int64
	apiBase string
	httpc   *http.Client
	delay   time.Duration // pause between token queries, keeps under rate limits
	logger  hclog.Logger
}

func NewEtherscan(apiKey string, chainID int64, logger hclog.Logger) (*Etherscan, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("etherscan api key is empty")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Etherscan{
		apiKey:  strings.TrimSpace(apiKey),
		chainID: chainID,
		apiBase: defaultAPIBase,
		httpc:   &http.Client{Timeout: 12 * time.Second},
		delay:   500 * time.Millisecond,
		logger:  logger.Named("etherscan"),
	}, nil
}

type accountResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (c *Etherscan) query(ctx context.Context, params url.Values) (*big.Int, error) {
	params.Set("chainid", strconv.FormatInt(c.chainID, 10))
	params.Set("module", "account")
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Status != "1" {
		if out.Message == "" {
			out.Message = "unknown error"
		}
		return nil, errors.New(out.Message)
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(out.Result), 10)
	if !ok {
		return nil, errors.New("unparseable balance: " + out.Result)
	}
	return v, nil
}

// NativeBalance returns the wallet's native-currency balance in wei.
func (c *Etherscan) NativeBalance(ctx context.Context, wallet string) (*big.Int, error) {
	params := url.Values{}
	params.Set("action", "balance")
	params.Set("address", wallet)
	return c.query(ctx, params)
}

// TokenBalance returns the wallet's ERC-20 balance in the token's raw units.
func (c *Etherscan) TokenBalance(ctx context.Context, contract, wallet string) (*big.Int, error) {
	params := url.Values{}
	params.Set("action", "tokenbalance")
	params.Set("contractaddress", contract)
	params.Set("address", wallet)
	params.Set("tag", "latest")
	return c.query(ctx, params)
}
