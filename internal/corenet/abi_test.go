package corenet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEmitEvent(t *testing.T) {
	t.Parallel()

	data, err := EncodeEmitEvent("FUEL_SYNTHESIZER_SYNTHESIS", `{"districtId":287}`)
	require.NoError(t, err)

	selector := gethcrypto.Keccak256([]byte("emitEvent(string,string)"))[:4]
	assert.Equal(t, selector, data[:4])

	// Both arguments round-trip through the ABI.
	args, err := gameABI.Methods["emitEvent"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, "FUEL_SYNTHESIZER_SYNTHESIS", args[0])
	assert.Equal(t, `{"districtId":287}`, args[1])
}

func TestEncodeEmitEventWithTransfers(t *testing.T) {
	t.Parallel()

	tokens := []TokenTransferArg{{
		TokenId:       "H",
		Amount:        big.NewInt(10),
		Receiver:      common.HexToAddress("0x1111111111111111111111111111111111111111"),
		TokenContract: common.HexToAddress("0x6989f166E49b378D38c4A5d2b00D76344dEa8Cec"),
	}}
	transfer := InternalTransferArg{
		TokenId:  "POL",
		Amount:   big.NewInt(1),
		Sender:   common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Receiver: common.HexToAddress("0x3333333333333333333333333333333333333333"),
	}

	data, err := EncodeEmitEventWithTransfers("FUEL_SYNTHESIZER_SYNTHESIS", "{}", tokens, transfer)
	require.NoError(t, err)

	selector := gethcrypto.Keccak256(
		[]byte("emitEventWithTransfers(string,string,(string,uint256,address,address)[],(string,uint256,address,address))"))[:4]
	assert.Equal(t, selector, data[:4])
}

func TestEncodeEmitEventWithTransfersNilTokens(t *testing.T) {
	t.Parallel()

	_, err := EncodeEmitEventWithTransfers("X", "{}", nil, InternalTransferArg{
		TokenId: "POL",
		Amount:  big.NewInt(0),
	})
	assert.NoError(t, err, "nil token slice packs as an empty array")
}
