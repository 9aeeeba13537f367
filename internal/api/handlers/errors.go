package handlers

import (
	"errors"
	"net/http"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// errorCode names the failure for clients. Order matters: typed errors are
// checked before the sentinels they unwrap to.
func errorCode(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrMalformedIdentifier):
		return http.StatusBadRequest, "malformed_identifier"
	case errors.Is(err, domain.ErrInvalidSnapshotArity):
		return http.StatusBadRequest, "invalid_snapshot_arity"
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrStaleSnapshot):
		return http.StatusConflict, "stale_snapshot"
	case errors.Is(err, domain.ErrBelowMinimumBid):
		return http.StatusUnprocessableEntity, "below_minimum_bid"
	case errors.Is(err, domain.ErrAuctionEnded):
		return http.StatusUnprocessableEntity, "auction_ended"
	case errors.Is(err, domain.ErrAuctionAlreadyClaimed):
		return http.StatusUnprocessableEntity, "auction_already_claimed"
	case errors.Is(err, domain.ErrWrongPhase):
		return http.StatusUnprocessableEntity, "wrong_phase"
	case errors.Is(err, domain.ErrNoFundsAvailable):
		return http.StatusUnprocessableEntity, "no_funds_available"
	case errors.Is(err, domain.ErrNotAuctioneer):
		return http.StatusForbidden, "not_auctioneer"
	case errors.Is(err, domain.ErrUnknownProtocol):
		return http.StatusInternalServerError, "unknown_protocol"
	case errors.Is(err, domain.ErrUnsupportedOperation):
		return http.StatusInternalServerError, "unsupported_operation"
	}
	return http.StatusInternalServerError, "internal"
}

func errorDetails(err error) map[string]string {
	var (
		below *domain.BelowMinimumBidError
		ended *domain.AuctionEndedError
		stale *domain.StaleSnapshotError
		phase *domain.WrongPhaseError
		arity *domain.ArityError
	)
	switch {
	case errors.As(err, &below):
		return map[string]string{
			"minimum":           below.Minimum.String(),
			"minimum_display":   formatAmount(below.Minimum),
			"candidate":         below.Candidate.String(),
			"candidate_display": formatAmount(below.Candidate),
		}
	case errors.As(err, &ended):
		return map[string]string{"deadline": itoa(ended.Deadline)}
	case errors.As(err, &stale):
		return map[string]string{"revision": utoa(stale.Revision), "latest": utoa(stale.Latest)}
	case errors.As(err, &phase):
		return map[string]string{"want": phase.Want.String(), "got": phase.Got.String()}
	case errors.As(err, &arity):
		if arity.Field != "" {
			return map[string]string{"field": arity.Field}
		}
		return map[string]string{"want": itoa(int64(arity.Want)), "got": itoa(int64(arity.Got))}
	}
	return nil
}

// respondError writes the JSON error body. Server-side failures are logged.
func respondError(c echo.Context, log logger.Logger, err error) error {
	status, code := errorCode(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(status, errorResponse{
		Error:   err.Error(),
		Code:    code,
		Details: errorDetails(err),
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: message, Code: "invalid_request"})
}
