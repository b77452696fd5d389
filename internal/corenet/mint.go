package corenet

import (
	"errors"
	"math/big"
)

// ErrMintNotImplemented marks the mint operation as pending upstream contract
// support.
var ErrMintNotImplemented = errors.New("district minting is not implemented yet")

// MintParams describes a district mint request.
type MintParams struct {
	Name     string
	Location string
}

func (p MintParams) Validate() error {
	if p.Name == "" {
		return errors.New("missing required field: district name")
	}
	if p.Location == "" {
		return errors.New("missing required field: location")
	}
	return nil
}

// MintQuote is the estimated cost to mint a district.
type MintQuote struct {
	PolCostWei *big.Int
	Resources  map[string]int64
}

// QuoteMint returns the current flat mint pricing.
func QuoteMint(MintParams) MintQuote {
	return MintQuote{
		PolCostWei: new(big.Int).Mul(big.NewInt(5), big.NewInt(1_000_000_000_000_000_000)),
		Resources:  map[string]int64{"Si": 1000, "REE": 500},
	}
}

// MintDistrict validates the request; the on-chain call is not available yet.
func MintDistrict(p MintParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return ErrMintNotImplemented
}
