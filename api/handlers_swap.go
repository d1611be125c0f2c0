package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/router/app"
	routertypes "github.com/paw-chain/router/x/router/types"
)

// swapCall is the parsed form shared by both swap requests.
type swapCall struct {
	caller, to common.Address
	amount     math.Int
	limit      math.Int
	path       routertypes.Path
	deadline   time.Time
}

type swapFunc func(ctx sdk.Context, call swapCall) ([]math.Int, error)

// errCallerMismatch rejects a body caller other than the token subject.
var errCallerMismatch = errors.New("caller does not match the authenticated subject")

// parseSwapCall builds a call acting as subject. A non-empty caller must name
// the same address.
func parseSwapCall(subject common.Address, caller, to, amount, limit string, path []string, deadline time.Time) (swapCall, error) {
	call := swapCall{caller: subject}
	if caller != "" {
		if !common.IsHexAddress(caller) {
			return call, fmt.Errorf("not a hex address: %q", caller)
		}
		if common.HexToAddress(caller) != subject {
			return call, errCallerMismatch
		}
	}
	if !common.IsHexAddress(to) {
		return call, fmt.Errorf("not a hex address: %q", to)
	}
	call.to = common.HexToAddress(to)

	var err error
	if call.amount, err = app.ParseAmount(amount); err != nil {
		return call, err
	}
	if call.limit, err = app.ParseAmount(limit); err != nil {
		return call, err
	}
	if call.path, err = parsePath(path); err != nil {
		return call, err
	}
	call.deadline = deadline
	return call, nil
}

func rejectSwapCall(c *gin.Context, err error) {
	if errors.Is(err, errCallerMismatch) {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error: err.Error(),
			Code:  "CALLER_MISMATCH",
		})
		return
	}
	badRequest(c, "invalid swap request", err)
}

func (s *Server) handleSwapExactInput(c *gin.Context) {
	var req SwapExactInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	call, err := parseSwapCall(subjectOf(c), req.Caller, req.To, req.AmountIn, req.AmountOutMin, req.Path, req.Deadline)
	if err != nil {
		rejectSwapCall(c, err)
		return
	}
	s.executeSwap(c, call, func(ctx sdk.Context, call swapCall) ([]math.Int, error) {
		return s.app.RouterKeeper.SwapExactInputForOutput(ctx, call.caller, call.amount, call.limit, call.path, call.to, call.deadline)
	})
}

func (s *Server) handleSwapExactOutput(c *gin.Context) {
	var req SwapExactOutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	call, err := parseSwapCall(subjectOf(c), req.Caller, req.To, req.AmountOut, req.AmountInMax, req.Path, req.Deadline)
	if err != nil {
		rejectSwapCall(c, err)
		return
	}
	s.executeSwap(c, call, func(ctx sdk.Context, call swapCall) ([]math.Int, error) {
		return s.app.RouterKeeper.SwapInputForExactOutput(ctx, call.caller, call.amount, call.limit, call.path, call.to, call.deadline)
	})
}

func (s *Server) executeSwap(c *gin.Context, call swapCall, swap swapFunc) {
	var amounts []math.Int
	err := s.app.Execute(func(ctx sdk.Context) error {
		var err error
		amounts, err = swap(ctx.WithContext(c.Request.Context()), call)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwapResponse{
		Amounts:   formatAmounts(amounts),
		AmountIn:  amounts[0].String(),
		AmountOut: amounts[len(amounts)-1].String(),
		Height:    s.app.Height(),
	})
}
