package types

import (
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// PoolState is the persisted state of one constant-product pool.
type PoolState struct {
	Address    common.Address `json:"address"`
	Token0     common.Address `json:"token0"`
	Token1     common.Address `json:"token1"`
	Reserve0   math.Int       `json:"reserve0"`
	Reserve1   math.Int       `json:"reserve1"`
	LastUpdate time.Time      `json:"last_update"`
}

// MustMarshalPoolState encodes a pool state for storage.
func MustMarshalPoolState(s PoolState) []byte {
	bz, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalPoolState decodes a stored pool state.
func UnmarshalPoolState(bz []byte) (PoolState, error) {
	var s PoolState
	if err := json.Unmarshal(bz, &s); err != nil {
		return PoolState{}, fmt.Errorf("unmarshal pool state: %w", err)
	}
	return s, nil
}
