package types

// Router event types
const (
	EventTypeSwap              = "router_swap"
	EventTypeLiquidityAdded    = "router_liquidity_added"
	EventTypeLiquidityRemoved  = "router_liquidity_removed"
	EventTypeEmergencyStop     = "emergency_stop_toggled"
	EventTypeParamsUpdated     = "router_params_updated"
	EventTypePairAuthorization = "pair_authorization_changed"
	EventTypeNativeRefund      = "router_native_refund"
)

// Event attribute keys
const (
	AttributeKeyCaller     = "caller"
	AttributeKeyRecipient  = "recipient"
	AttributeKeyAuthority  = "authority"
	AttributeKeyPool       = "pool"
	AttributeKeyPath       = "path"
	AttributeKeyAmountIn   = "amount_in"
	AttributeKeyAmountOut  = "amount_out"
	AttributeKeyAmounts    = "amounts"
	AttributeKeyAmountA    = "amount_a"
	AttributeKeyAmountB    = "amount_b"
	AttributeKeyLiquidity  = "liquidity"
	AttributeKeyStopped    = "stopped"
	AttributeKeyAuthorized = "authorized"
	AttributeKeyToken0     = "token0"
	AttributeKeyToken1     = "token1"
	AttributeKeyRefund     = "refund"
	AttributeKeyKind       = "kind"
)
