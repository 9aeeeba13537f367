package handlers

import (
	"net/http"

	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

type WatchlistHandler struct {
	watchlist *services.WatchlistService
	log       logger.Logger
}

func NewWatchlistHandler(watchlist *services.WatchlistService, log logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, log: log}
}

func (h *WatchlistHandler) List(c echo.Context) error {
	userID := c.Param("user")
	entries, err := h.watchlist.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := make([]WatchlistResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, WatchlistResponse{UserID: e.UserID, AuctionID: e.AuctionID.Encode(), Watching: true})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *WatchlistHandler) Add(c echo.Context) error {
	userID := c.Param("user")
	var req WatchlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}

	id, err := h.watchlist.Add(c.Request().Context(), userID, req.AuctionID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, WatchlistResponse{UserID: userID, AuctionID: id.Encode(), Watching: true})
}

func (h *WatchlistHandler) Contains(c echo.Context) error {
	userID, encodedID := c.Param("user"), c.Param("id")
	watching, err := h.watchlist.Contains(c.Request().Context(), userID, encodedID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, WatchlistResponse{UserID: userID, AuctionID: encodedID, Watching: watching})
}

func (h *WatchlistHandler) Remove(c echo.Context) error {
	userID := c.Param("user")
	id, err := h.watchlist.Remove(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, WatchlistResponse{UserID: userID, AuctionID: id.Encode(), Watching: false})
}

func (h *WatchlistHandler) Toggle(c echo.Context) error {
	userID, encodedID := c.Param("user"), c.Param("id")
	watching, err := h.watchlist.Toggle(c.Request().Context(), userID, encodedID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, WatchlistResponse{UserID: userID, AuctionID: encodedID, Watching: watching})
}
