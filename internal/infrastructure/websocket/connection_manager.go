package websocket

import (
	"encoding/json"
	"sync"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/metrics"
	"auction-marketplace/pkg/logger"
)

type ConnectionManager struct {
	connections map[string]map[string]domain.WebSocketConnection // auctionID -> userID -> connection
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[string]domain.WebSocketConnection),
		log:         log,
	}
}

// RegisterConnection adds conn as userID's subscription to auctionID. A
// second connection from the same user replaces and closes the first.
func (cm *ConnectionManager) RegisterConnection(userID, auctionID string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.connections[auctionID] == nil {
		cm.connections[auctionID] = make(map[string]domain.WebSocketConnection)
	}
	if previous, exists := cm.connections[auctionID][userID]; exists && previous != conn {
		if err := previous.Close(); err != nil {
			cm.log.Debug("Failed to close replaced connection", "user_id", userID, "auction_id", auctionID, "error", err)
		}
		metrics.FeedConnections.Dec()
	}
	cm.connections[auctionID][userID] = conn
	metrics.FeedConnections.Inc()

	cm.log.Info("Connection registered", "user_id", userID, "auction_id", auctionID)
	return nil
}

// UnregisterConnection removes conn if it is still the registered one.
func (cm *ConnectionManager) UnregisterConnection(userID, auctionID string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	auctionConns, exists := cm.connections[auctionID]
	if !exists {
		return nil
	}
	if current, ok := auctionConns[userID]; !ok || current != conn {
		return nil
	}

	delete(auctionConns, userID)
	if len(auctionConns) == 0 {
		delete(cm.connections, auctionID)
	}
	metrics.FeedConnections.Dec()

	cm.log.Info("Connection unregistered", "user_id", userID, "auction_id", auctionID)
	return nil
}

func (cm *ConnectionManager) CloseAndUnregisterConnections(auctionID string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for userID, conn := range cm.connections[auctionID] {
		if err := conn.Close(); err != nil {
			cm.log.Error("Failed to close connection", "user_id", userID,
				"auction_id", auctionID, "error", err)
		}
		metrics.FeedConnections.Dec()
	}
	delete(cm.connections, auctionID)

	cm.log.Info("Connections closed for auction", "auction_id", auctionID)
	return nil
}

func (cm *ConnectionManager) GetConnectionsForAuction(auctionID string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	connections := make([]domain.WebSocketConnection, 0, len(cm.connections[auctionID]))
	for _, conn := range cm.connections[auctionID] {
		connections = append(connections, conn)
	}
	return connections
}

// BroadcastToAuction marshals message once and sends it to every subscriber.
// A failed send is logged and does not stop the others.
func (cm *ConnectionManager) BroadcastToAuction(auctionID string, message interface{}) error {
	connections := cm.GetConnectionsForAuction(auctionID)
	if len(connections) == 0 {
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	cm.log.Debug("Broadcasting to auction", "auction_id", auctionID, "connections", len(connections))
	for _, conn := range connections {
		if err := conn.Send(json.RawMessage(messageBytes)); err != nil {
			cm.log.Error("Failed to send message", "user_id", conn.UserID(),
				"auction_id", auctionID, "error", err)
		}
	}
	return nil
}
