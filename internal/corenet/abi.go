// Package corenet drives the game's on-chain event contract: per-district
// fuel synthesis calls and the batch runner that submits them in sequence.
package corenet

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var gameABI abi.ABI

func init() {
	const game = `[
		{"inputs":[
			{"name":"eventId","type":"string"},
			{"name":"message","type":"string"}],
		 "name":"emitEvent","outputs":[],"stateMutability":"payable","type":"function"},
		{"inputs":[
			{"name":"eventId","type":"string"},
			{"name":"message","type":"string"},
			{"name":"tokens","type":"tuple[]","components":[
				{"name":"tokenId","type":"string"},
				{"name":"amount","type":"uint256"},
				{"name":"receiver","type":"address"},
				{"name":"tokenContract","type":"address"}]},
			{"name":"internalTransfer","type":"tuple","components":[
				{"name":"tokenId","type":"string"},
				{"name":"amount","type":"uint256"},
				{"name":"sender","type":"address"},
				{"name":"receiver","type":"address"}]}],
		 "name":"emitEventWithTransfers","outputs":[],"stateMutability":"nonpayable","type":"function"}
	]`
	ab, _ := abi.JSON(strings.NewReader(game))
	gameABI = ab
}

// TokenTransferArg mirrors the tokens tuple of emitEventWithTransfers.
type TokenTransferArg struct {
	TokenId       string
	Amount        *big.Int
	Receiver      common.Address
	TokenContract common.Address
}

// InternalTransferArg mirrors the internalTransfer tuple.
type InternalTransferArg struct {
	TokenId  string
	Amount   *big.Int
	Sender   common.Address
	Receiver common.Address
}

// EncodeEmitEvent packs calldata for the payable emitEvent(eventId, message).
func EncodeEmitEvent(eventID, message string) ([]byte, error) {
	return gameABI.Pack("emitEvent", eventID, message)
}

// EncodeEmitEventWithTransfers packs the extended variant that carries the
// token burn entries and the internal transfer tuple explicitly.
func EncodeEmitEventWithTransfers(eventID, message string, tokens []TokenTransferArg, transfer InternalTransferArg) ([]byte, error) {
	if tokens == nil {
		tokens = []TokenTransferArg{}
	}
	return gameABI.Pack("emitEventWithTransfers", eventID, message, tokens, transfer)
}
