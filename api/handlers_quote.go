package api

import (
	"context"
	"net/http"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/router/app"
	routerkeeper "github.com/paw-chain/router/x/router/keeper"
	routertypes "github.com/paw-chain/router/x/router/types"
)

// queryAmounts parses the named query parameters as amounts.
func queryAmounts(c *gin.Context, names ...string) ([]math.Int, bool) {
	out := make([]math.Int, len(names))
	for i, name := range names {
		v, err := app.ParseAmount(c.Query(name))
		if err != nil {
			badRequest(c, "invalid "+name, err)
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (s *Server) handleAmountOut(c *gin.Context) {
	v, ok := queryAmounts(c, "amount_in", "reserve_in", "reserve_out")
	if !ok {
		return
	}
	out, err := routerkeeper.GetAmountOut(v[0], v[1], v[2])
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{Amount: out.String()})
}

func (s *Server) handleAmountIn(c *gin.Context) {
	v, ok := queryAmounts(c, "amount_out", "reserve_in", "reserve_out")
	if !ok {
		return
	}
	in, err := routerkeeper.GetAmountIn(v[0], v[1], v[2])
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{Amount: in.String()})
}

func (s *Server) handleQuote(c *gin.Context) {
	v, ok := queryAmounts(c, "amount_a", "reserve_a", "reserve_b")
	if !ok {
		return
	}
	b, err := routerkeeper.Quote(v[0], v[1], v[2])
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{Amount: b.String()})
}

func (s *Server) handleAmountsOut(c *gin.Context) {
	s.handleAmounts(c, s.app.RouterKeeper.GetAmountsOut)
}

func (s *Server) handleAmountsIn(c *gin.Context) {
	s.handleAmounts(c, s.app.RouterKeeper.GetAmountsIn)
}

type pathQuoter func(ctx context.Context, amount math.Int, path routertypes.Path) ([]math.Int, error)

func (s *Server) handleAmounts(c *gin.Context, quote pathQuoter) {
	var req AmountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	amount, err := app.ParseAmount(req.Amount)
	if err != nil {
		badRequest(c, "invalid amount", err)
		return
	}
	path, err := parsePath(req.Path)
	if err != nil {
		writeError(c, err)
		return
	}

	var amounts []math.Int
	err = s.app.Query(func(ctx sdk.Context) error {
		var err error
		amounts, err = quote(ctx, amount, path)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AmountsResponse{Path: req.Path, Amounts: formatAmounts(amounts)})
}

func parsePath(assets []string) (routertypes.Path, error) {
	path := make(routertypes.Path, len(assets))
	for i, a := range assets {
		if !common.IsHexAddress(a) {
			return nil, routertypes.ErrInvalidPath.Wrapf("path element %d is not a hex address: %q", i, a)
		}
		path[i] = common.HexToAddress(a)
	}
	return path, nil
}

func formatAmounts(amounts []math.Int) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = a.String()
	}
	return out
}
