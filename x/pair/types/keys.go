package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "pair"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// MinimumLiquidity is locked forever on a pool's first mint.
	MinimumLiquidity = 1000
)

// BurnAddress receives the permanently locked minimum liquidity.
var BurnAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

var (
	BalanceKeyPrefix = []byte{0x01} // token | holder -> amount
	NativeKeyPrefix  = []byte{0x02} // holder -> native amount
	PoolKeyPrefix    = []byte{0x03} // pool address -> pool state
	SupplyKeyPrefix  = []byte{0x04} // token -> total supply
)

// BalanceKey returns the store key for holder's balance of token.
func BalanceKey(token, holder common.Address) []byte {
	key := make([]byte, 0, 1+2*common.AddressLength)
	key = append(key, BalanceKeyPrefix...)
	key = append(key, token.Bytes()...)
	return append(key, holder.Bytes()...)
}

// NativeKey returns the store key for holder's native balance.
func NativeKey(holder common.Address) []byte {
	return append(append([]byte{}, NativeKeyPrefix...), holder.Bytes()...)
}

// PoolKey returns the store key for a pool's state.
func PoolKey(pool common.Address) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), pool.Bytes()...)
}

// SupplyKey returns the store key for the total supply of token.
func SupplyKey(token common.Address) []byte {
	return append(append([]byte{}, SupplyKeyPrefix...), token.Bytes()...)
}
