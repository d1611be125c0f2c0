package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/router/x/router/types"
)

// EnvPrefix prefixes every environment variable override, e.g.
// ROUTERD_API_LISTEN_ADDR.
const EnvPrefix = "ROUTERD"

// Config is the full routerd configuration.
type Config struct {
	Authority     string `mapstructure:"authority" yaml:"authority"`
	RouterAddress string `mapstructure:"router_address" yaml:"router_address"`
	Registry      string `mapstructure:"registry" yaml:"registry"`
	PoolCodeHash  string `mapstructure:"pool_code_hash" yaml:"pool_code_hash"`
	WrappedNative string `mapstructure:"wrapped_native" yaml:"wrapped_native"`

	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Params    types.Params    `mapstructure:"params" yaml:"params"`
	Genesis   GenesisConfig   `mapstructure:"genesis" yaml:"genesis"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "plain" or "json"
}

// APIConfig configures the public HTTP API and the operations server.
type APIConfig struct {
	ListenAddr        string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	OpsListenAddr     string        `mapstructure:"ops_listen_addr" yaml:"ops_listen_addr"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	CORSOrigins       []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	// JWTSecret signs bearer tokens. Empty disables swap and admin routes.
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"-"`
	AuditLogDir       string        `mapstructure:"audit_log_dir" yaml:"audit_log_dir"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	TracingEnabled bool    `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	SampleRate     float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	Environment    string  `mapstructure:"environment" yaml:"environment"`
}

// GenesisConfig seeds ledger balances and pools at startup.
type GenesisConfig struct {
	Balances        []BalanceConfig `mapstructure:"balances" yaml:"balances"`
	Native          []NativeConfig  `mapstructure:"native" yaml:"native"`
	Pools           []PoolConfig    `mapstructure:"pools" yaml:"pools"`
	AuthorizedPairs []PairConfig    `mapstructure:"authorized_pairs" yaml:"authorized_pairs"`
}

// BalanceConfig credits Amount of Token to Holder.
type BalanceConfig struct {
	Token  string `mapstructure:"token" yaml:"token"`
	Holder string `mapstructure:"holder" yaml:"holder"`
	Amount string `mapstructure:"amount" yaml:"amount"`
}

// NativeConfig credits Amount of native value to Holder.
type NativeConfig struct {
	Holder string `mapstructure:"holder" yaml:"holder"`
	Amount string `mapstructure:"amount" yaml:"amount"`
}

// PoolConfig deploys a pool with the given reserves. If Provider is set the
// initial pool shares are minted to it.
type PoolConfig struct {
	TokenA   string `mapstructure:"token_a" yaml:"token_a"`
	TokenB   string `mapstructure:"token_b" yaml:"token_b"`
	ReserveA string `mapstructure:"reserve_a" yaml:"reserve_a"`
	ReserveB string `mapstructure:"reserve_b" yaml:"reserve_b"`
	Provider string `mapstructure:"provider" yaml:"provider"`
}

// PairConfig names a pair for the authorization set.
type PairConfig struct {
	TokenA string `mapstructure:"token_a" yaml:"token_a"`
	TokenB string `mapstructure:"token_b" yaml:"token_b"`
}

// DefaultConfig returns a configuration suitable for local use.
func DefaultConfig() Config {
	return Config{
		Authority:     "0x00000000000000000000000000000000000A0711",
		RouterAddress: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		Registry:      "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
		PoolCodeHash:  "0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f",
		WrappedNative: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		Log: LogConfig{
			Level:  "info",
			Format: "plain",
		},
		API: APIConfig{
			ListenAddr:        ":8080",
			OpsListenAddr:     ":9090",
			RequestsPerSecond: 100,
			Burst:             200,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			CORSOrigins:       []string{"*"},
		},
		Telemetry: TelemetryConfig{
			SampleRate:  0.1,
			Environment: "development",
		},
		Params: types.DefaultParams(),
	}
}

// BindFlags registers the flags that override configuration keys.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML, TOML or JSON config file")
	flags.String("log.level", "", "log level (debug, info, warn, error)")
	flags.String("log.format", "", "log format (plain, json)")
}

// LoadConfig builds the configuration from defaults, an optional config
// file, ROUTERD_* environment variables and flags, in increasing precedence.
func LoadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// Empty flag values must not clobber defaults.
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultConfig().Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultConfig().Log.Format
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("authority", cfg.Authority)
	v.SetDefault("router_address", cfg.RouterAddress)
	v.SetDefault("registry", cfg.Registry)
	v.SetDefault("pool_code_hash", cfg.PoolCodeHash)
	v.SetDefault("wrapped_native", cfg.WrappedNative)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("api.listen_addr", cfg.API.ListenAddr)
	v.SetDefault("api.ops_listen_addr", cfg.API.OpsListenAddr)
	v.SetDefault("api.requests_per_second", cfg.API.RequestsPerSecond)
	v.SetDefault("api.burst", cfg.API.Burst)
	v.SetDefault("api.read_timeout", cfg.API.ReadTimeout)
	v.SetDefault("api.write_timeout", cfg.API.WriteTimeout)
	v.SetDefault("api.cors_origins", cfg.API.CORSOrigins)
	v.SetDefault("api.jwt_secret", cfg.API.JWTSecret)
	v.SetDefault("api.audit_log_dir", cfg.API.AuditLogDir)
	v.SetDefault("telemetry.tracing_enabled", cfg.Telemetry.TracingEnabled)
	v.SetDefault("telemetry.otlp_endpoint", cfg.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.sample_rate", cfg.Telemetry.SampleRate)
	v.SetDefault("telemetry.environment", cfg.Telemetry.Environment)
	v.SetDefault("params.max_price_impact_bps", cfg.Params.MaxPriceImpactBps)
	v.SetDefault("params.min_time_between_calls", cfg.Params.MinTimeBetweenCalls)
	v.SetDefault("params.max_hops", cfg.Params.MaxHops)
	v.SetDefault("params.restrict_pairs", cfg.Params.RestrictPairs)
}

// Validate checks addresses, params and API limits.
func (c Config) Validate() error {
	for name, addr := range map[string]string{
		"authority":      c.Authority,
		"router_address": c.RouterAddress,
		"registry":       c.Registry,
		"wrapped_native": c.WrappedNative,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("config: %s is not a hex address: %q", name, addr)
		}
		if common.HexToAddress(addr) == (common.Address{}) {
			return fmt.Errorf("config: %s must not be the zero address", name)
		}
	}
	if hash := strings.TrimPrefix(c.PoolCodeHash, "0x"); len(hash) != 2*common.HashLength {
		return fmt.Errorf("config: pool_code_hash must be 32 bytes of hex, got %q", c.PoolCodeHash)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.API.RequestsPerSecond <= 0 || c.API.Burst <= 0 {
		return fmt.Errorf("config: api rate limit must be positive")
	}
	if c.Telemetry.TracingEnabled && c.Telemetry.OTLPEndpoint == "" {
		return fmt.Errorf("config: telemetry.otlp_endpoint is required when tracing is enabled")
	}
	return nil
}

// Addresses returns the parsed deployment addresses.
func (c Config) Addresses() (authority, router, registry, wrapped common.Address, codeHash common.Hash) {
	return common.HexToAddress(c.Authority),
		common.HexToAddress(c.RouterAddress),
		common.HexToAddress(c.Registry),
		common.HexToAddress(c.WrappedNative),
		common.HexToHash(c.PoolCodeHash)
}
