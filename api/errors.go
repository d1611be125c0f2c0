package api

import (
	"errors"
	"fmt"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	routertypes "github.com/paw-chain/router/x/router/types"
)

var errorStatus = []struct {
	err    *errorsmod.Error
	status int
	code   string
}{
	{routertypes.ErrInvalidPath, http.StatusBadRequest, "INVALID_PATH"},
	{routertypes.ErrZeroAddress, http.StatusBadRequest, "ZERO_ADDRESS"},
	{routertypes.ErrInvalidAmounts, http.StatusBadRequest, "INVALID_AMOUNTS"},
	{routertypes.ErrOverflow, http.StatusBadRequest, "OVERFLOW"},
	{routertypes.ErrInvalidParams, http.StatusBadRequest, "INVALID_PARAMS"},
	{routertypes.ErrPoolNotFound, http.StatusNotFound, "POOL_NOT_FOUND"},
	{routertypes.ErrInsufficientAmount, http.StatusUnprocessableEntity, "INSUFFICIENT_AMOUNT"},
	{routertypes.ErrExpiredDeadline, http.StatusUnprocessableEntity, "EXPIRED_DEADLINE"},
	{routertypes.ErrExcessiveSlippage, http.StatusUnprocessableEntity, "EXCESSIVE_SLIPPAGE"},
	{routertypes.ErrExcessivePriceImpact, http.StatusUnprocessableEntity, "EXCESSIVE_PRICE_IMPACT"},
	{routertypes.ErrTransferFailed, http.StatusUnprocessableEntity, "TRANSFER_FAILED"},
	{routertypes.ErrTooSoon, http.StatusTooManyRequests, "TOO_SOON"},
	{routertypes.ErrUnauthorizedPair, http.StatusForbidden, "UNAUTHORIZED_PAIR"},
	{routertypes.ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED"},
	{routertypes.ErrEmergencyStopActive, http.StatusServiceUnavailable, "EMERGENCY_STOP"},
	{routertypes.ErrReentrancy, http.StatusConflict, "REENTRANCY"},
}

// writeError maps router errors onto HTTP statuses. Bound violations carry
// the offending values in Details.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	resp := ErrorResponse{Error: err.Error(), Code: "INTERNAL_ERROR"}
	status := http.StatusInternalServerError
	for _, e := range errorStatus {
		if errorsmod.IsOf(err, e.err) {
			status, resp.Code = e.status, e.code
			break
		}
	}

	var bound *routertypes.BoundError
	if errors.As(err, &bound) {
		resp.Details = fmt.Sprintf("%s: limit %s, actual %s", bound.Field, bound.Limit, bound.Actual)
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := ErrorResponse{Error: msg, Code: "BAD_REQUEST"}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
