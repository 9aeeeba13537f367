package services

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"auction-marketplace/internal/domain"

	"github.com/ethereum/go-ethereum/common"
)

var (
	linearContract    = common.HexToAddress("0x000000000000000000000000000000000000a001")
	expContract       = common.HexToAddress("0x000000000000000000000000000000000000a002")
	logContract       = common.HexToAddress("0x000000000000000000000000000000000000a003")
	ascendingContract = common.HexToAddress("0x000000000000000000000000000000000000a004")
	sealedContract    = common.HexToAddress("0x000000000000000000000000000000000000a005")

	seller   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	buyer    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	payToken = common.HexToAddress("0x3333333333333333333333333333333333333333")
	nftToken = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func testContracts() map[domain.AuctionProtocol]common.Address {
	return map[domain.AuctionProtocol]common.Address{
		domain.ProtocolAscending:        ascendingContract,
		domain.ProtocolLinearDecay:      linearContract,
		domain.ProtocolExponentialDecay: expContract,
		domain.ProtocolLogarithmicDecay: logContract,
		domain.ProtocolSealedBid:        sealedContract,
	}
}

func fixedClock(unix int64) domain.Clock {
	return func() time.Time { return time.Unix(unix, 0) }
}

func linearSnapshot(number int64) *domain.AuctionSnapshot {
	return &domain.AuctionSnapshot{
		ID:             domain.MustAuctionID(domain.ProtocolLinearDecay, number),
		Auctioneer:     seller,
		AuctionedAsset: domain.AuctionedAsset{Token: nftToken, IDOrAmount: big.NewInt(1), IsNonFungible: true},
		BiddingAsset:   domain.BiddingAsset{Token: payToken},
		StartingPrice:  big.NewInt(100),
		ReservedPrice:  big.NewInt(20),
		AvailableFunds: big.NewInt(0),
		Deadline:       2000,
		Duration:       1000,
		BlockNumber:    10,
	}
}

func ascendingSnapshot(number int64) *domain.AuctionSnapshot {
	return &domain.AuctionSnapshot{
		ID:                domain.MustAuctionID(domain.ProtocolAscending, number),
		Auctioneer:        seller,
		AuctionedAsset:    domain.AuctionedAsset{Token: nftToken, IDOrAmount: big.NewInt(1), IsNonFungible: true},
		BiddingAsset:      domain.BiddingAsset{Token: payToken},
		StartingPrice:     big.NewInt(1),
		AvailableFunds:    big.NewInt(0),
		CurrentHighestBid: big.NewInt(5),
		MinBidDelta:       big.NewInt(1),
		Winner:            buyer,
		Deadline:          2000,
		Duration:          1000,
		BlockNumber:       10,
	}
}

func sealedSnapshot(number int64) *domain.AuctionSnapshot {
	return &domain.AuctionSnapshot{
		ID:             domain.MustAuctionID(domain.ProtocolSealedBid, number),
		Auctioneer:     seller,
		AuctionedAsset: domain.AuctionedAsset{Token: nftToken, IDOrAmount: big.NewInt(1), IsNonFungible: true},
		BiddingAsset:   domain.BiddingAsset{Token: payToken},
		StartingPrice:  big.NewInt(10),
		AvailableFunds: big.NewInt(0),
		WinningBid:     big.NewInt(0),
		CommitPhaseEnd: 1000,
		RevealPhaseEnd: 2000,
		Deadline:       2000,
		Duration:       1000,
		BlockNumber:    10,
	}
}

type recordingPublisher struct {
	mu        sync.Mutex
	events    []*domain.AuctionEvent
	snapshots []*domain.AuctionSnapshot
	err       error
}

func (p *recordingPublisher) PublishAuctionEvent(_ context.Context, event *domain.AuctionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, snapshot *domain.AuctionSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
	return nil
}

func (p *recordingPublisher) eventsOfType(t domain.EventType) []*domain.AuctionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*domain.AuctionEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type staticLeader struct {
	leader bool
	err    error
}

func (l *staticLeader) BecomeLeader(context.Context, string) (bool, error) { return l.leader, l.err }

func (l *staticLeader) IsLeader(context.Context, string) (bool, error) { return l.leader, l.err }

func (l *staticLeader) ReleaseLeadership(context.Context, string) error { return nil }

type memoryWatchlist struct {
	mu   sync.Mutex
	sets map[string]map[string]domain.AuctionID
	err  error
}

func newMemoryWatchlist() *memoryWatchlist {
	return &memoryWatchlist{sets: make(map[string]map[string]domain.AuctionID)}
}

func (m *memoryWatchlist) Add(_ context.Context, userID string, id domain.AuctionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.sets[userID] == nil {
		m.sets[userID] = make(map[string]domain.AuctionID)
	}
	m.sets[userID][id.Encode()] = id
	return nil
}

func (m *memoryWatchlist) Remove(_ context.Context, userID string, id domain.AuctionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets[userID], id.Encode())
	return m.err
}

func (m *memoryWatchlist) Contains(_ context.Context, userID string, id domain.AuctionID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[userID][id.Encode()]
	return ok, m.err
}

func (m *memoryWatchlist) List(_ context.Context, userID string) ([]domain.AuctionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuctionID
	for _, id := range m.sets[userID] {
		out = append(out, id)
	}
	return out, m.err
}

type memoryBids struct {
	mu   sync.Mutex
	bids []*domain.Bid
	err  error
}

func (m *memoryBids) SaveBid(_ context.Context, bid *domain.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.bids = append(m.bids, bid)
	return nil
}

func (m *memoryBids) GetBidHistory(_ context.Context, auctionID string) ([]*domain.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Bid
	for i := len(m.bids) - 1; i >= 0; i-- {
		if m.bids[i].AuctionID == auctionID {
			out = append(out, m.bids[i])
		}
	}
	return out, m.err
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages map[string][]interface{}
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{messages: make(map[string][]interface{})}
}

func (b *recordingBroadcaster) BroadcastToAuction(_ context.Context, auctionID string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[auctionID] = append(b.messages[auctionID], message)
	return nil
}

func (b *recordingBroadcaster) sent(auctionID string) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[auctionID]
}

type recordingConnections struct {
	mu     sync.Mutex
	closed []string
}

func (c *recordingConnections) RegisterConnection(string, string, domain.WebSocketConnection) error {
	return nil
}

func (c *recordingConnections) UnregisterConnection(string, string, domain.WebSocketConnection) error {
	return nil
}

func (c *recordingConnections) GetConnectionsForAuction(string) []domain.WebSocketConnection {
	return nil
}

func (c *recordingConnections) BroadcastToAuction(string, interface{}) error { return nil }

func (c *recordingConnections) CloseAndUnregisterConnections(auctionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = append(c.closed, auctionID)
	return nil
}

type channelSubscriber struct {
	events    []*domain.AuctionEvent
	snapshots []*domain.AuctionSnapshot
}

func (c *channelSubscriber) SubscribeToAuctionEvents(_ context.Context, handler domain.EventHandler) error {
	var errs []error
	for _, e := range c.events {
		if err := handler(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *channelSubscriber) SubscribeToSnapshots(_ context.Context, handler domain.SnapshotHandler) error {
	for _, s := range c.snapshots {
		if err := handler(s); err != nil {
			return err
		}
	}
	return nil
}
