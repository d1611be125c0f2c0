package api

import "time"

// Amounts travel as base-10 strings so 256-bit values survive JSON.

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// QuoteResponse carries a single computed amount.
type QuoteResponse struct {
	Amount string `json:"amount"`
}

// AmountsRequest asks for a path quote. Amount is the exact input for
// amounts-out and the exact output for amounts-in.
type AmountsRequest struct {
	Amount string   `json:"amount" binding:"required"`
	Path   []string `json:"path" binding:"required"`
}

// AmountsResponse lists the amount at every position of the path.
type AmountsResponse struct {
	Path    []string `json:"path"`
	Amounts []string `json:"amounts"`
}

// PoolResponse describes a pool oriented to the requested token order.
type PoolResponse struct {
	Pool       string    `json:"pool"`
	TokenA     string    `json:"token_a"`
	TokenB     string    `json:"token_b"`
	ReserveA   string    `json:"reserve_a"`
	ReserveB   string    `json:"reserve_b"`
	LastUpdate time.Time `json:"last_update"`
}

// ParamsResponse reports the router params and emergency stop flag.
type ParamsResponse struct {
	MaxPriceImpactBps   uint64 `json:"max_price_impact_bps"`
	MinTimeBetweenCalls string `json:"min_time_between_calls"`
	MaxHops             uint32 `json:"max_hops"`
	RestrictPairs       bool   `json:"restrict_pairs"`
	EmergencyStop       bool   `json:"emergency_stop"`
}

// SwapExactInputRequest spends exactly AmountIn from the token subject.
// Caller is optional and must equal the subject when given.
type SwapExactInputRequest struct {
	Caller       string    `json:"caller,omitempty"`
	AmountIn     string    `json:"amount_in" binding:"required"`
	AmountOutMin string    `json:"amount_out_min" binding:"required"`
	Path         []string  `json:"path" binding:"required"`
	To           string    `json:"to" binding:"required"`
	Deadline     time.Time `json:"deadline" binding:"required"`
}

// SwapExactOutputRequest receives exactly AmountOut, paid by the token
// subject.
type SwapExactOutputRequest struct {
	Caller      string    `json:"caller,omitempty"`
	AmountOut   string    `json:"amount_out" binding:"required"`
	AmountInMax string    `json:"amount_in_max" binding:"required"`
	Path        []string  `json:"path" binding:"required"`
	To          string    `json:"to" binding:"required"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

// SwapResponse reports an executed swap.
type SwapResponse struct {
	Amounts   []string `json:"amounts"`
	AmountIn  string   `json:"amount_in"`
	AmountOut string   `json:"amount_out"`
	Height    int64    `json:"height"`
}
