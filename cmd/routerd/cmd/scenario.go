package cmd

import (
	"fmt"
	"os"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/paw-chain/router/app"
	routertypes "github.com/paw-chain/router/x/router/types"
)

// Scenario is a scripted sequence of router calls. Params and Genesis,
// when present, replace the configured ones.
type Scenario struct {
	Params  *routertypes.Params `yaml:"params"`
	Genesis *app.GenesisConfig  `yaml:"genesis"`
	Steps   []Step              `yaml:"steps"`
}

// Step is one scenario action. Amounts may be YAML integers or decimal
// strings; values above 2^63 must be quoted.
type Step struct {
	Name   string `yaml:"name"`
	Action string `yaml:"action"`

	Caller string   `yaml:"caller"`
	To     string   `yaml:"to"`
	Path   []string `yaml:"path"`
	TokenA string   `yaml:"token_a"`
	TokenB string   `yaml:"token_b"`

	// Amount is the exact side of a swap and Limit its slippage bound.
	Amount    interface{} `yaml:"amount"`
	Limit     interface{} `yaml:"limit"`
	Value     interface{} `yaml:"value"`
	AmountA   interface{} `yaml:"amount_a"`
	AmountB   interface{} `yaml:"amount_b"`
	MinA      interface{} `yaml:"min_a"`
	MinB      interface{} `yaml:"min_b"`
	Liquidity interface{} `yaml:"liquidity"`

	// Deadline is relative to the step's block time, default one minute.
	Deadline interface{} `yaml:"deadline"`
	// Advance moves the clock before the step runs. Integers are seconds.
	Advance interface{} `yaml:"advance"`
	Stopped bool        `yaml:"stopped"`

	ExpectError string `yaml:"expect_error"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	var s Scenario
	if err := yaml.Unmarshal(bz, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(s.Steps) == 0 {
		return Scenario{}, fmt.Errorf("scenario %s has no steps", path)
	}
	return s, nil
}

func (s Step) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d %s", i+1, s.Action)
}

func amountOf(field string, v interface{}) (math.Int, error) {
	if v == nil {
		return math.ZeroInt(), nil
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s: %w", field, err)
	}
	amount, err := app.ParseAmount(str)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s: %w", field, err)
	}
	return amount, nil
}

func durationOf(field string, v interface{}, def time.Duration) (time.Duration, error) {
	switch x := v.(type) {
	case nil:
		return def, nil
	case int:
		return time.Duration(x) * time.Second, nil
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func addressOf(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: not a hex address: %q", field, s)
	}
	return common.HexToAddress(s), nil
}
