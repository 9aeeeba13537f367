package services

import (
	"context"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/metrics"
	"auction-marketplace/internal/pricing"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"

	"github.com/robfig/cron/v3"
)

// PriceTicker recomputes decaying prices on a cron schedule and publishes
// them, and announces sealed-bid phase changes. Only the leader instance
// publishes; the others keep their snapshot store warm.
type PriceTicker struct {
	cron           *cron.Cron
	spec           string
	store          *SnapshotStore
	eventPub       domain.EventPublisher
	leaderElection domain.LeaderElection
	instanceID     string
	clock          domain.Clock
	log            logger.Logger

	phaseMutex sync.Mutex
	lastPhase  map[string]domain.Phase
}

func NewPriceTicker(
	spec string,
	store *SnapshotStore,
	eventPub domain.EventPublisher,
	leaderElection domain.LeaderElection,
	instanceID string,
	clock domain.Clock,
	log logger.Logger,
) *PriceTicker {
	if clock == nil {
		clock = time.Now
	}
	return &PriceTicker{
		cron:           cron.New(cron.WithSeconds()),
		spec:           spec,
		store:          store,
		eventPub:       eventPub,
		leaderElection: leaderElection,
		instanceID:     instanceID,
		clock:          clock,
		log:            log,
		lastPhase:      make(map[string]domain.Phase),
	}
}

func (t *PriceTicker) Start(ctx context.Context) error {
	t.log.Info("Starting price ticker", "spec", t.spec)

	_, err := t.cron.AddFunc(t.spec, func() {
		t.Tick(ctx)
	})
	if err != nil {
		return err
	}

	t.cron.Start()
	return nil
}

func (t *PriceTicker) Stop() {
	t.log.Info("Stopping price ticker")
	<-t.cron.Stop().Done()
}

// Follow keeps the ticker's store in step with the snapshots the API
// publishes, keeping the API's revisions. Stale snapshots are dropped.
func (t *PriceTicker) Follow(ctx context.Context, subscriber domain.SnapshotSubscriber) error {
	return subscriber.SubscribeToSnapshots(ctx, func(snapshot *domain.AuctionSnapshot) error {
		if err := t.store.Mirror(snapshot); err != nil {
			t.log.Debug("Ignoring snapshot", "auction_id", snapshot.ID.Encode(), "error", err)
		}
		return nil
	})
}

// Tick runs one round. It is exported so the feed can force a round on
// startup and so tests can drive it without the scheduler.
func (t *PriceTicker) Tick(ctx context.Context) {
	isLeader, err := t.leaderElection.IsLeader(ctx, t.instanceID)
	if err != nil {
		t.log.Error("Leader check failed", "error", err)
		return
	}
	if !isLeader {
		return
	}

	now := t.clock()
	for _, event := range t.collect(now) {
		if err := t.eventPub.PublishAuctionEvent(ctx, event); err != nil {
			t.log.Error("Failed to publish feed event", "auction_id", event.AuctionID, "type", event.Type, "error", err)
			continue
		}
		if event.Type == domain.EventPriceTick {
			metrics.PriceTicks.Inc()
		}
	}
}

func (t *PriceTicker) collect(now time.Time) []*domain.AuctionEvent {
	unix := now.Unix()
	var events []*domain.AuctionEvent

	for _, s := range t.store.List() {
		id := s.ID.Encode()
		switch {
		case s.ID.Protocol.IsDecaying():
			// one tick at the deadline carries the floor price, then silence
			if s.IsClaimed || unix < s.StartTime() || unix > s.Deadline {
				continue
			}
			event, err := priceTick(s, now)
			if err != nil {
				t.log.Error("Price computation failed", "auction_id", id, "error", err)
				continue
			}
			events = append(events, event)

		case s.ID.Protocol == domain.ProtocolSealedBid:
			phase := pricing.SnapshotPhase(s, unix)
			if !t.phaseChanged(id, phase) {
				continue
			}
			events = append(events, phaseChange(s, phase, now))
		}
	}
	return events
}

// phaseChanged records phase and reports whether it differs from the last
// one announced. The first observation is announced too.
func (t *PriceTicker) phaseChanged(id string, phase domain.Phase) bool {
	t.phaseMutex.Lock()
	defer t.phaseMutex.Unlock()

	last, seen := t.lastPhase[id]
	if seen && last == phase {
		return false
	}
	t.lastPhase[id] = phase
	return true
}

// Current describes the present state of one auction for a subscriber that
// has just connected.
func (t *PriceTicker) Current(encodedID string) (*domain.AuctionEvent, error) {
	id, err := domain.DecodeAuctionID(encodedID)
	if err != nil {
		return nil, err
	}
	s, err := t.store.Get(id)
	if err != nil {
		return nil, err
	}

	now := t.clock()
	switch {
	case s.IsClaimed:
		return &domain.AuctionEvent{
			Type:      domain.EventAuctionClaimed,
			AuctionID: encodedID,
			Revision:  s.Revision,
			Block:     s.BlockNumber,
			Timestamp: now,
		}, nil
	case s.ID.Protocol.IsDecaying():
		return priceTick(s, now)
	case s.ID.Protocol == domain.ProtocolSealedBid:
		return phaseChange(s, pricing.SnapshotPhase(s, now.Unix()), now), nil
	}

	minimum := pricing.MinimumNextBid(s)
	return &domain.AuctionEvent{
		Type:      domain.EventSnapshotUpdated,
		AuctionID: encodedID,
		Bidder:    s.Winner.Hex(),
		Amount:    minimum.String(),
		Display:   utils.FormatUnits(minimum, utils.TokenDecimals),
		Revision:  s.Revision,
		Block:     s.BlockNumber,
		Timestamp: now,
	}, nil
}

func priceTick(s *domain.AuctionSnapshot, now time.Time) (*domain.AuctionEvent, error) {
	price, err := pricing.CurrentPrice(s, now.Unix())
	if err != nil {
		return nil, err
	}
	return &domain.AuctionEvent{
		Type:      domain.EventPriceTick,
		AuctionID: s.ID.Encode(),
		Amount:    price.String(),
		Display:   utils.FormatUnits(price, utils.TokenDecimals),
		Revision:  s.Revision,
		Block:     s.BlockNumber,
		Timestamp: now,
	}, nil
}

func phaseChange(s *domain.AuctionSnapshot, phase domain.Phase, now time.Time) *domain.AuctionEvent {
	return &domain.AuctionEvent{
		Type:      domain.EventPhaseChange,
		AuctionID: s.ID.Encode(),
		Phase:     phase.String(),
		Revision:  s.Revision,
		Block:     s.BlockNumber,
		Timestamp: now,
	}
}
