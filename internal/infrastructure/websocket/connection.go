package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Connection is one subscriber socket. gorilla allows a single concurrent
// writer, so writes are serialized.
type Connection struct {
	conn      *websocket.Conn
	userID    string
	auctionID string

	writeMutex sync.Mutex
	closeOnce  sync.Once
	closeErr   error
}

func NewConnection(conn *websocket.Conn, userID, auctionID string) *Connection {
	return &Connection{
		conn:      conn,
		userID:    userID,
		auctionID: auctionID,
	}
}

func (c *Connection) Send(message interface{}) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(message)
}

func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.writeMutex.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.writeMutex.Unlock()
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Connection) UserID() string {
	return c.userID
}

func (c *Connection) AuctionID() string {
	return c.auctionID
}
