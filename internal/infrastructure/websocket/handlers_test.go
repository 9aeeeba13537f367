package websocket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubState map[string]*domain.AuctionEvent

func (s stubState) Current(encodedID string) (*domain.AuctionEvent, error) {
	if encodedID == "bad" {
		return nil, fmt.Errorf("%w: bad", domain.ErrMalformedIdentifier)
	}
	event, ok := s[encodedID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return event, nil
}

func newFeedServer(t *testing.T, state stubState) (*httptest.Server, *ConnectionManager) {
	t.Helper()
	cm := NewConnectionManager(logger.NewNop())
	router := mux.NewRouter()
	NewFeedHandler(state, cm, logger.NewNop()).Register(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, cm
}

func dial(t *testing.T, server *httptest.Server, path string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestFeedHandler_PushesStateAndBroadcasts(t *testing.T) {
	id := domain.MustAuctionID(domain.ProtocolLinearDecay, 1).Encode()
	server, cm := newFeedServer(t, stubState{
		id: {Type: domain.EventPriceTick, AuctionID: id, Amount: "60"},
	})

	conn, _, err := dial(t, server, "/ws/auction/"+id+"?user_id=alice")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial domain.AuctionEvent
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, domain.EventPriceTick, initial.Type)
	assert.Equal(t, "60", initial.Amount)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])

	require.NoError(t, cm.BroadcastToAuction(id, &domain.AuctionEvent{Type: domain.EventPriceTick, AuctionID: id, Amount: "59"}))
	var tick domain.AuctionEvent
	require.NoError(t, conn.ReadJSON(&tick))
	assert.Equal(t, "59", tick.Amount)
}

func TestFeedHandler_RejectsBadRequests(t *testing.T) {
	claimed := domain.MustAuctionID(domain.ProtocolLinearDecay, 2).Encode()
	server, _ := newFeedServer(t, stubState{
		claimed: {Type: domain.EventAuctionClaimed, AuctionID: claimed},
	})
	missing := domain.MustAuctionID(domain.ProtocolLinearDecay, 3).Encode()

	cases := []struct {
		name string
		path string
		want int
	}{
		{"missing user", "/ws/auction/" + claimed, http.StatusBadRequest},
		{"malformed id", "/ws/auction/bad?user_id=alice", http.StatusBadRequest},
		{"unknown auction", "/ws/auction/" + missing + "?user_id=alice", http.StatusNotFound},
		{"claimed auction", "/ws/auction/" + claimed + "?user_id=alice", http.StatusGone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, resp, err := dial(t, server, tc.path)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
