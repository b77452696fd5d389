// Package balances queries wallet balances for the game's token set through
// the Etherscan v2 API and renders a column-aligned report.
package balances

// Token describes one entry of the balance report. An empty Contract means
// the chain's native currency. Places controls the displayed decimal places.
type Token struct {
	Symbol   string
	Contract string
	Decimals int
	Places   int
}

// DefaultTokens is the game's resource token set on Polygon. The resource
// tokens are integer-denominated (0 decimals); only POL carries 18.
func DefaultTokens() []Token {
	return []Token{
		{Symbol: "POL", Contract: "", Decimals: 18, Places: 3},
		{Symbol: "Si", Contract: "0xD2fDBb49DBA431fb728a046c5900618deED064fF"},
		{Symbol: "REE", Contract: "0x813a5B8eE3932B5ce1c4B2b6444d599A128a6C71"},
		{Symbol: "C", Contract: "0xf986430B685e9aB18E0108C604d31b71971DB5F7"},
		{Symbol: "Ti", Contract: "0xF53CE43b19f04E84890E3c347Dc4A366f3D75619"},
		{Symbol: "H", Contract: "0x6989f166E49b378D38c4A5d2b00D76344dEa8Cec"},
		{Symbol: "He3", Contract: "0xc316115D4ce93Af8E081d8555820fF74eFD5b5AE"},
		{Symbol: "COS", Contract: "0x2c6e0C3EC2107144CcbadD6b003eC13b72EB44E7"},
		{Symbol: "CN", Contract: "0x7BeD50d99CfdBea233A2F2E3DCCd4F9A0acAfe6c"},
		{Symbol: "CRS", Contract: "0x4F80a7627bfb9fdc54d7184e0DDeB2c76596cC3C"},
	}
}
