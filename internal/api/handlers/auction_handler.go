package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// BidHistory lists the recorded bids of one auction.
type BidHistory interface {
	History(ctx context.Context, encodedID string) ([]*domain.Bid, error)
}

type AuctionHandler struct {
	market *services.MarketService
	bids   BidHistory
	log    logger.Logger
}

func NewAuctionHandler(market *services.MarketService, bids BidHistory, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		market: market,
		bids:   bids,
		log:    log,
	}
}

// IngestSnapshots takes raw contract rows read at one block. Numbers are
// decoded as json.Number so uint256 values keep full precision.
func (h *AuctionHandler) IngestSnapshots(c echo.Context) error {
	protocol, err := domain.ParseProtocol(c.Param("protocol"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req IngestRequest
	decoder := json.NewDecoder(c.Request().Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		h.log.Debug("Failed to decode ingest request", "error", err)
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}

	result, err := h.market.Ingest(c.Request().Context(), protocol, req.Rows, req.BlockNumber)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.log.Info("Ingested snapshots",
		"protocol", protocol.String(),
		"block_number", req.BlockNumber,
		"accepted", len(result.Accepted),
		"skipped", len(result.Skipped),
		"stale", len(result.Stale))
	return c.JSON(http.StatusOK, result)
}

// ListAuctions accepts repeated ?protocol= filters.
func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	var protocols []domain.AuctionProtocol
	for _, tag := range c.QueryParams()["protocol"] {
		p, err := domain.ParseProtocol(tag)
		if err != nil {
			return badRequest(c, err.Error())
		}
		protocols = append(protocols, p)
	}

	auctions, err := h.market.ListAuctions(c.Request().Context(), protocols...)
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, newAuctionResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	id, err := auctionIDParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	auction, err := h.market.GetAuction(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, newAuctionResponse(auction))
}

func (h *AuctionHandler) ValidateBid(c echo.Context) error {
	id, err := auctionIDParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req ValidateBidRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.market.ValidateBid(c.Request().Context(), id, amount); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ValidateBidResponse{Valid: true})
}

func (h *AuctionHandler) BuildPurchaseOperation(c echo.Context) error {
	return h.buildOperation(c, h.market.BuildPurchaseOrBid)
}

func (h *AuctionHandler) BuildWithdrawFundsOperation(c echo.Context) error {
	return h.buildOperation(c, h.market.BuildFundsWithdrawal)
}

type operationBuilder func(ctx context.Context, encodedID string, req services.OperationRequest) (*domain.TxOperation, error)

func (h *AuctionHandler) buildOperation(c echo.Context, build operationBuilder) error {
	id, err := auctionIDParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req OperationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}

	opReq := services.OperationRequest{
		Caller:   common.HexToAddress(req.Caller),
		Revision: req.Revision,
	}
	if req.Amount != "" {
		if opReq.Amount, err = parseAmount(req.Amount); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if opReq.Salt, err = parseSalt(req.Salt); err != nil {
		return respondError(c, h.log, err)
	}

	op, err := build(c.Request().Context(), id, opReq)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, op)
}

func (h *AuctionHandler) BidHistory(c echo.Context) error {
	id, err := auctionIDParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	bids, err := h.bids.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, newBidResponse(b))
	}
	return c.JSON(http.StatusOK, resp)
}

// auctionIDParam rejects ids that do not decode. An unknown protocol tag in
// a client id is malformed input, not a dispatch failure.
func auctionIDParam(c echo.Context) (string, error) {
	encoded := c.Param("id")
	if _, err := domain.DecodeAuctionID(encoded); err != nil {
		return "", &malformedIDError{cause: err}
	}
	return encoded, nil
}

type malformedIDError struct {
	cause error
}

func (e *malformedIDError) Error() string { return e.cause.Error() }

func (e *malformedIDError) Is(target error) bool { return target == domain.ErrMalformedIdentifier }
