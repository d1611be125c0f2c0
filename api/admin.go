package api

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	routertypes "github.com/paw-chain/router/x/router/types"
)

// EmergencyStopRequest toggles the emergency stop.
type EmergencyStopRequest struct {
	Stopped bool `json:"stopped"`
}

// PairAuthorizationRequest adds or removes a pair from the authorization set.
type PairAuthorizationRequest struct {
	TokenA     string `json:"token_a" binding:"required"`
	TokenB     string `json:"token_b" binding:"required"`
	Authorized bool   `json:"authorized"`
}

func (s *Server) handleSetEmergencyStop(c *gin.Context) {
	var req EmergencyStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	s.executeAdmin(c, "set_emergency_stop", map[string]interface{}{"stopped": req.Stopped}, func(ctx sdk.Context, admin common.Address) error {
		return s.app.RouterKeeper.SetEmergencyStop(ctx, admin, req.Stopped)
	})
}

func (s *Server) handleUpdateParams(c *gin.Context) {
	var params routertypes.Params
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	details := map[string]interface{}{
		"max_price_impact_bps":   params.MaxPriceImpactBps,
		"min_time_between_calls": params.MinTimeBetweenCalls.String(),
		"max_hops":               params.MaxHops,
		"restrict_pairs":         params.RestrictPairs,
	}
	s.executeAdmin(c, "update_params", details, func(ctx sdk.Context, admin common.Address) error {
		return s.app.RouterKeeper.UpdateParams(ctx, admin, params)
	})
}

func (s *Server) handleSetPairAuthorization(c *gin.Context) {
	var req PairAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	tokens, err := parsePath([]string{req.TokenA, req.TokenB})
	if err != nil {
		writeError(c, err)
		return
	}
	details := map[string]interface{}{
		"token_a":    tokens[0].Hex(),
		"token_b":    tokens[1].Hex(),
		"authorized": req.Authorized,
	}
	s.executeAdmin(c, "set_pair_authorization", details, func(ctx sdk.Context, admin common.Address) error {
		if req.Authorized {
			return s.app.RouterKeeper.AuthorizePair(ctx, admin, tokens[0], tokens[1])
		}
		return s.app.RouterKeeper.RevokePair(ctx, admin, tokens[0], tokens[1])
	})
}

// executeAdmin commits fn as the token's subject, audits the outcome and
// responds with the resulting params.
func (s *Server) executeAdmin(c *gin.Context, action string, details map[string]interface{}, fn func(ctx sdk.Context, admin common.Address) error) {
	admin := subjectOf(c)
	err := s.app.Execute(func(ctx sdk.Context) error {
		return fn(ctx.WithContext(c.Request.Context()), admin)
	})
	s.audit.LogAdminAction(c, admin.Hex(), action, details, s.app.Height(), err)
	if err != nil {
		writeError(c, err)
		return
	}
	s.logger.Info("admin action", "action", action, "admin", admin.Hex())
	s.handleGetParams(c)
}
