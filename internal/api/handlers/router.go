package handlers

import (
	"net/http"
	"time"

	apimiddleware "auction-marketplace/internal/api/middleware"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Auctions  *AuctionHandler
	Watchlist *WatchlistHandler
	Tokens    *TokenHandler
	Service   string
	Log       logger.Logger
}

// Echo builds the marketplace API server with its middleware and routes.
func (r Router) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.RequestID())
	e.Use(apimiddleware.RequestLogger(r.Log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		MaxAge: 86400,
	}))

	api := e.Group("/api/v1")
	api.POST("/snapshots/:protocol", r.Auctions.IngestSnapshots)
	api.GET("/auctions", r.Auctions.ListAuctions)
	api.GET("/auctions/:id", r.Auctions.GetAuction)
	api.POST("/auctions/:id/validate", r.Auctions.ValidateBid)
	api.POST("/auctions/:id/operations/purchase", r.Auctions.BuildPurchaseOperation)
	api.POST("/auctions/:id/operations/withdraw-funds", r.Auctions.BuildWithdrawFundsOperation)
	api.GET("/auctions/:id/bids", r.Auctions.BidHistory)

	api.GET("/users/:user/watchlist", r.Watchlist.List)
	api.POST("/users/:user/watchlist", r.Watchlist.Add)
	api.GET("/users/:user/watchlist/:id", r.Watchlist.Contains)
	api.DELETE("/users/:user/watchlist/:id", r.Watchlist.Remove)
	api.POST("/users/:user/watchlist/:id/toggle", r.Watchlist.Toggle)

	api.PUT("/tokens/:address", r.Tokens.RegisterSymbol)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   r.Service,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
