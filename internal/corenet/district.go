package corenet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
)

const (
	defaultBuildingType = "FUEL_SYNTHESIZER"
	defaultResearchType = "FUEL_SYNTHESIZER_SYNTHESIS"
)

// District is one record of the input batch file.
type District struct {
	DistrictID   int64                       `json:"districtId"`
	BuildingID   int64                       `json:"buildingId"`
	BuildingType string                      `json:"buildingType"`
	ResearchType string                      `json:"researchType"`
	Tokens       map[string]TokenBurn        `json:"tokens"`
	Transfers    map[string]InternalTransfer `json:"internalTransfers"`
}

// TokenBurn is a resource-token entry of the extended synthesis call.
type TokenBurn struct {
	Amount   json.Number `json:"amount"`
	Receiver string      `json:"receiver"`
	Contract string      `json:"contract"`
}

// InternalTransfer is a native-currency leg keyed by currency symbol.
type InternalTransfer struct {
	Amount   json.Number `json:"amount"`
	Sender   string      `json:"sender"`
	Receiver string      `json:"receiver"`
}

// EventID is the on-chain event identifier, defaulting to the synthesis type.
func (d District) EventID() string {
	if d.ResearchType != "" {
		return d.ResearchType
	}
	return defaultResearchType
}

// eventMessage is the JSON body passed as the contract's message argument.
// Field order is part of the payload the contract consumers expect.
type eventMessage struct {
	DistrictID   int64  `json:"districtId"`
	BuildingID   int64  `json:"buildingId"`
	BuildingType string `json:"buildingType"`
	ResearchType string `json:"researchType"`
}

// MessageJSON renders the message argument with defaults applied.
func (d District) MessageJSON() (string, error) {
	m := eventMessage{
		DistrictID:   d.DistrictID,
		BuildingID:   d.BuildingID,
		BuildingType: d.BuildingType,
		ResearchType: d.ResearchType,
	}
	if m.BuildingType == "" {
		m.BuildingType = defaultBuildingType
	}
	if m.ResearchType == "" {
		m.ResearchType = defaultResearchType
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TransferAmountWei converts the POL internal-transfer amount (decimal native
// units) to wei, exactly.
func (d District) TransferAmountWei() (*big.Int, error) {
	tr, ok := d.Transfers["POL"]
	if !ok {
		return nil, errors.New("district has no POL internal transfer")
	}
	return NativeToWei(tr.Amount.String())
}

// NativeToWei converts a decimal native-currency amount ("0.05") to wei.
func NativeToWei(amount string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, errors.New("invalid amount: " + amount)
	}
	if r.Sign() < 0 {
		return nil, errors.New("negative amount: " + amount)
	}
	r.Mul(r, new(big.Rat).SetInt64(1_000_000_000_000_000_000))
	// Sub-wei remainders truncate.
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

type batchFile struct {
	Districts []District `json:"districts"`
}

// LoadDistricts reads the JSON batch file ({"districts": [...]}).
func LoadDistricts(path string) ([]District, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	var f batchFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return f.Districts, nil
}
