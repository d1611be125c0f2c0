package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Path is an ordered list of assets describing the pools a swap traverses.
type Path []common.Address

// ValidateBasic checks the structural rules of a path: length within
// [2, maxLen], no null identifiers and no two adjacent identical assets.
func (p Path) ValidateBasic(maxLen int) error {
	if len(p) < 2 {
		return ErrInvalidPath.Wrapf("path needs at least 2 assets, got %d", len(p))
	}
	if len(p) > maxLen {
		return ErrInvalidPath.Wrapf("path length %d exceeds maximum %d", len(p), maxLen)
	}
	for i, asset := range p {
		if asset == (common.Address{}) {
			return ErrZeroAddress.Wrapf("path element %d", i)
		}
		if i > 0 && p[i-1] == asset {
			return ErrInvalidPath.Wrapf("adjacent assets %d and %d are both %s", i-1, i, asset.Hex())
		}
	}
	return nil
}

// Hops returns the number of pools traversed.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// First returns the input asset.
func (p Path) First() common.Address { return p[0] }

// Last returns the output asset.
func (p Path) Last() common.Address { return p[len(p)-1] }

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, asset := range p {
		parts[i] = asset.Hex()
	}
	return strings.Join(parts, ",")
}

// ParsePath parses a comma separated list of hex addresses.
func ParsePath(s string) (Path, error) {
	fields := strings.Split(s, ",")
	path := make(Path, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if !common.IsHexAddress(f) {
			return nil, ErrInvalidPath.Wrapf("not a hex address: %q", f)
		}
		path = append(path, common.HexToAddress(f))
	}
	return path, nil
}
