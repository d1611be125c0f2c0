package types

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// BasisPoints is the scale used for price impact ceilings.
	BasisPoints = 10_000

	// DefaultMaxHops bounds the number of pools a single path may traverse.
	DefaultMaxHops = 5

	// MaxHopsCeiling is the largest MaxHops value Validate accepts.
	MaxHopsCeiling = 16
)

// Params holds the process-wide router configuration. It is mutated only
// through the keeper's administrative operations.
type Params struct {
	// MaxPriceImpactBps is the per-hop price impact ceiling in basis points.
	MaxPriceImpactBps uint64 `json:"max_price_impact_bps" mapstructure:"max_price_impact_bps" yaml:"max_price_impact_bps"`
	// MinTimeBetweenCalls is the per-caller rate limit window; zero disables it.
	MinTimeBetweenCalls time.Duration `json:"min_time_between_calls" mapstructure:"min_time_between_calls" yaml:"min_time_between_calls"`
	// MaxHops is the maximum number of hops in a path (path length MaxHops+1).
	MaxHops uint32 `json:"max_hops" mapstructure:"max_hops" yaml:"max_hops"`
	// RestrictPairs limits swaps to pairs in the authorization set.
	RestrictPairs bool `json:"restrict_pairs" mapstructure:"restrict_pairs" yaml:"restrict_pairs"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		MaxPriceImpactBps:   1_000, // 10%
		MinTimeBetweenCalls: 0,
		MaxHops:             DefaultMaxHops,
		RestrictPairs:       false,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.MaxPriceImpactBps == 0 || p.MaxPriceImpactBps > BasisPoints {
		return ErrInvalidParams.Wrapf("max price impact must be in (0, %d] bps, got %d", BasisPoints, p.MaxPriceImpactBps)
	}
	if p.MinTimeBetweenCalls < 0 {
		return ErrInvalidParams.Wrapf("min time between calls cannot be negative: %s", p.MinTimeBetweenCalls)
	}
	if p.MaxHops == 0 || p.MaxHops > MaxHopsCeiling {
		return ErrInvalidParams.Wrapf("max hops must be in [1, %d], got %d", MaxHopsCeiling, p.MaxHops)
	}
	return nil
}

// MaxPathLength is the longest accepted path under p.
func (p Params) MaxPathLength() int {
	return int(p.MaxHops) + 1
}

func (p Params) String() string {
	return fmt.Sprintf("max_price_impact_bps=%d min_time_between_calls=%s max_hops=%d restrict_pairs=%t",
		p.MaxPriceImpactBps, p.MinTimeBetweenCalls, p.MaxHops, p.RestrictPairs)
}

// MustMarshalParams encodes params for storage.
func MustMarshalParams(p Params) []byte {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalParams decodes stored params.
func UnmarshalParams(bz []byte) (Params, error) {
	var p Params
	if err := json.Unmarshal(bz, &p); err != nil {
		return Params{}, fmt.Errorf("unmarshal params: %w", err)
	}
	return p, nil
}
