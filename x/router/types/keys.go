package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "router"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	ParamsKey         = []byte{0x01} // router params
	EmergencyStopKey  = []byte{0x02} // emergency stop flag
	LastCallKeyPrefix = []byte{0x03} // per-caller last call time
	AuthorizedPairKey = []byte{0x04} // prefix for authorized pairs
	CallStateKey      = []byte{0x05} // reentrancy call state
)

// LastCallKey returns the store key holding the last call time of caller.
func LastCallKey(caller common.Address) []byte {
	return append(append([]byte{}, LastCallKeyPrefix...), caller.Bytes()...)
}

// AuthorizedPairKeyFor returns the authorization key for a pair. Callers must
// pass the canonical (sorted) order.
func AuthorizedPairKeyFor(token0, token1 common.Address) []byte {
	key := append([]byte{}, AuthorizedPairKey...)
	key = append(key, token0.Bytes()...)
	return append(key, token1.Bytes()...)
}
