package websocket

import (
	"errors"
	"net/http"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StateSource describes an auction's present state for a new subscriber.
type StateSource interface {
	Current(encodedID string) (*domain.AuctionEvent, error)
}

type clientMessage struct {
	Type string `json:"type"`
}

// FeedHandler serves GET /ws/auction/{auctionID}?user_id=.
type FeedHandler struct {
	state       StateSource
	connManager domain.ConnectionManager
	log         logger.Logger
}

func NewFeedHandler(state StateSource, connManager domain.ConnectionManager, log logger.Logger) *FeedHandler {
	return &FeedHandler{
		state:       state,
		connManager: connManager,
		log:         log,
	}
}

func (h *FeedHandler) Register(router *mux.Router) {
	router.HandleFunc("/ws/auction/{auctionID}", h.HandleConnection).Methods(http.MethodGet)
}

func (h *FeedHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["auctionID"]

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	initial, err := h.state.Current(auctionID)
	switch {
	case errors.Is(err, domain.ErrMalformedIdentifier), errors.Is(err, domain.ErrUnknownProtocol):
		http.Error(w, "malformed auction id", http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrSnapshotNotFound):
		http.Error(w, "auction not found", http.StatusNotFound)
		return
	case err != nil:
		h.log.Error("Failed to read auction state", "auction_id", auctionID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if initial.Type == domain.EventAuctionClaimed {
		http.Error(w, "auction already claimed", http.StatusGone)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	wsConn := NewConnection(conn, userID, auctionID)
	if err := h.connManager.RegisterConnection(userID, auctionID, wsConn); err != nil {
		h.log.Error("Failed to register connection", "error", err)
		_ = wsConn.Close()
		return
	}

	if err := wsConn.Send(initial); err != nil {
		h.log.Error("Failed to send initial state", "user_id", userID, "auction_id", auctionID, "error", err)
	}

	go h.handleMessages(wsConn)
}

func (h *FeedHandler) handleMessages(conn *Connection) {
	defer func() {
		if err := h.connManager.UnregisterConnection(conn.UserID(), conn.AuctionID(), conn); err != nil {
			h.log.Error("Failed to unregister connection", "error", err)
		}
		_ = conn.Close()
	}()

	for {
		var msg clientMessage
		if err := conn.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("Connection read failed", "user_id", conn.UserID(), "error", err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			if err := conn.Send(clientMessage{Type: "pong"}); err != nil {
				return
			}
		default:
			_ = conn.Send(map[string]string{"type": "error", "message": "unsupported message type"})
		}
	}
}
