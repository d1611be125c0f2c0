package types

// Pair event types
const (
	EventTypePoolCreated = "pool_created"
	EventTypeMint        = "pool_mint"
	EventTypeBurn        = "pool_burn"
	EventTypeSwap        = "pool_swap"
	EventTypeSync        = "pool_sync"
	EventTypeTransfer    = "transfer"

	AttributeKeyPool       = "pool"
	AttributeKeyToken      = "token"
	AttributeKeyToken0     = "token0"
	AttributeKeyToken1     = "token1"
	AttributeKeyFrom       = "from"
	AttributeKeyTo         = "to"
	AttributeKeyAmount     = "amount"
	AttributeKeyAmount0    = "amount0"
	AttributeKeyAmount1    = "amount1"
	AttributeKeyAmount0In  = "amount0_in"
	AttributeKeyAmount1In  = "amount1_in"
	AttributeKeyAmount0Out = "amount0_out"
	AttributeKeyAmount1Out = "amount1_out"
	AttributeKeyReserve0   = "reserve0"
	AttributeKeyReserve1   = "reserve1"
	AttributeKeyLiquidity  = "liquidity"
)
