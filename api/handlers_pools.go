package api

import (
	"net/http"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetPool(c *gin.Context) {
	tokens, err := parsePath([]string{c.Param("tokenA"), c.Param("tokenB")})
	if err != nil {
		writeError(c, err)
		return
	}

	var (
		resp       PoolResponse
		rA, rB     math.Int
		lastUpdate time.Time
	)
	err = s.app.Query(func(ctx sdk.Context) error {
		reserveA, reserveB, pool, err := s.app.RouterKeeper.GetReserves(ctx, tokens[0], tokens[1])
		if err != nil {
			return err
		}
		rA, rB = reserveA, reserveB
		resp.Pool = pool.Address().Hex()
		_, _, lastUpdate, err = pool.GetReserves(ctx)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp.TokenA = tokens[0].Hex()
	resp.TokenB = tokens[1].Hex()
	resp.ReserveA = rA.String()
	resp.ReserveB = rB.String()
	resp.LastUpdate = lastUpdate
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetParams(c *gin.Context) {
	var resp ParamsResponse
	_ = s.app.Query(func(ctx sdk.Context) error {
		params := s.app.RouterKeeper.GetParams(ctx)
		resp = ParamsResponse{
			MaxPriceImpactBps:   params.MaxPriceImpactBps,
			MinTimeBetweenCalls: params.MinTimeBetweenCalls.String(),
			MaxHops:             params.MaxHops,
			RestrictPairs:       params.RestrictPairs,
			EmergencyStop:       s.app.RouterKeeper.IsEmergencyStopped(ctx),
		}
		return nil
	})
	c.JSON(http.StatusOK, resp)
}
