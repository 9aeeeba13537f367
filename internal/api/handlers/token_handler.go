package handlers

import (
	"context"
	"net/http"

	"auction-marketplace/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

type SymbolRegistrar interface {
	Register(ctx context.Context, token common.Address, symbol string) error
}

// TokenHandler lets the chain reader publish token symbols it has looked up.
type TokenHandler struct {
	registrar SymbolRegistrar
	log       logger.Logger
}

func NewTokenHandler(registrar SymbolRegistrar, log logger.Logger) *TokenHandler {
	return &TokenHandler{registrar: registrar, log: log}
}

func (h *TokenHandler) RegisterSymbol(c echo.Context) error {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		return badRequest(c, "address must be a hex token address")
	}

	var req TokenSymbolRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}

	token := common.HexToAddress(address)
	if err := h.registrar.Register(c.Request().Context(), token, req.Symbol); err != nil {
		return respondError(c, h.log, err)
	}

	h.log.Info("Registered token symbol", "token", token.Hex(), "symbol", req.Symbol)
	return c.JSON(http.StatusOK, map[string]string{"token": token.Hex(), "symbol": req.Symbol})
}
