package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickerClock struct{ unix int64 }

func newTestTicker(store *SnapshotStore, pub *recordingPublisher, leader *staticLeader, clock *tickerClock) *PriceTicker {
	return NewPriceTicker("@every 5s", store, pub, leader, "feed-1",
		func() time.Time { return time.Unix(clock.unix, 0) }, logger.NewNop())
}

func TestPriceTicker_PublishesDecayingPrices(t *testing.T) {
	store := NewSnapshotStore()
	_, _, _ = store.Replace(linearSnapshot(1))
	claimed := linearSnapshot(2)
	claimed.IsClaimed = true
	_, _, _ = store.Replace(claimed)
	_, _, _ = store.Replace(ascendingSnapshot(3))

	pub := &recordingPublisher{}
	clock := &tickerClock{unix: 1500}
	ticker := newTestTicker(store, pub, &staticLeader{leader: true}, clock)

	ticker.Tick(context.Background())

	ticks := pub.eventsOfType(domain.EventPriceTick)
	require.Len(t, ticks, 1)
	assert.Equal(t, domain.MustAuctionID(domain.ProtocolLinearDecay, 1).Encode(), ticks[0].AuctionID)
	assert.Equal(t, "60", ticks[0].Amount)
	assert.Equal(t, "0.00000000000000006", ticks[0].Display)

	clock.unix = 2001
	ticker.Tick(context.Background())
	assert.Len(t, pub.eventsOfType(domain.EventPriceTick), 1, "no ticks after the deadline")
}

func TestPriceTicker_FollowerStaysQuiet(t *testing.T) {
	store := NewSnapshotStore()
	_, _, _ = store.Replace(linearSnapshot(1))
	pub := &recordingPublisher{}

	newTestTicker(store, pub, &staticLeader{leader: false}, &tickerClock{unix: 1500}).Tick(context.Background())
	newTestTicker(store, pub, &staticLeader{err: errors.New("redis down")}, &tickerClock{unix: 1500}).Tick(context.Background())

	assert.Empty(t, pub.events)
}

func TestPriceTicker_AnnouncesPhaseChangesOnce(t *testing.T) {
	store := NewSnapshotStore()
	_, _, _ = store.Replace(sealedSnapshot(1))
	pub := &recordingPublisher{}
	clock := &tickerClock{unix: 500}
	ticker := newTestTicker(store, pub, &staticLeader{leader: true}, clock)

	var phases []string
	for _, now := range []int64{500, 600, 1000, 1500, 2000, 2500} {
		clock.unix = now
		ticker.Tick(context.Background())
	}
	for _, e := range pub.eventsOfType(domain.EventPhaseChange) {
		phases = append(phases, e.Phase)
	}
	assert.Equal(t, []string{"commit", "reveal", "ended"}, phases)
}

func TestPriceTicker_FollowFeedsStore(t *testing.T) {
	store := NewSnapshotStore()
	ticker := newTestTicker(store, &recordingPublisher{}, &staticLeader{}, &tickerClock{})

	older := linearSnapshot(1)
	older.BlockNumber = 5
	sub := &channelSubscriber{snapshots: []*domain.AuctionSnapshot{linearSnapshot(1), older}}

	require.NoError(t, ticker.Follow(context.Background(), sub))
	s, err := store.Get(domain.MustAuctionID(domain.ProtocolLinearDecay, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), s.BlockNumber)
}

func TestPriceTicker_CurrentState(t *testing.T) {
	store := NewSnapshotStore()
	_, _, _ = store.Replace(linearSnapshot(1))
	_, _, _ = store.Replace(ascendingSnapshot(2))
	_, _, _ = store.Replace(sealedSnapshot(3))
	claimed := linearSnapshot(4)
	claimed.IsClaimed = true
	_, _, _ = store.Replace(claimed)
	ticker := newTestTicker(store, &recordingPublisher{}, &staticLeader{}, &tickerClock{unix: 1500})

	event, err := ticker.Current(domain.MustAuctionID(domain.ProtocolLinearDecay, 1).Encode())
	require.NoError(t, err)
	assert.Equal(t, domain.EventPriceTick, event.Type)
	assert.Equal(t, "60", event.Amount)

	event, err = ticker.Current(domain.MustAuctionID(domain.ProtocolAscending, 2).Encode())
	require.NoError(t, err)
	assert.Equal(t, domain.EventSnapshotUpdated, event.Type)
	assert.Equal(t, "6", event.Amount)

	event, err = ticker.Current(domain.MustAuctionID(domain.ProtocolSealedBid, 3).Encode())
	require.NoError(t, err)
	assert.Equal(t, domain.EventPhaseChange, event.Type)
	assert.Equal(t, "reveal", event.Phase)

	event, err = ticker.Current(domain.MustAuctionID(domain.ProtocolLinearDecay, 4).Encode())
	require.NoError(t, err)
	assert.Equal(t, domain.EventAuctionClaimed, event.Type)

	_, err = ticker.Current(domain.MustAuctionID(domain.ProtocolLinearDecay, 9).Encode())
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	_, err = ticker.Current("not-an-id")
	assert.ErrorIs(t, err, domain.ErrMalformedIdentifier)
}
