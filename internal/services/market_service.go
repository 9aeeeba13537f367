package services

import (
	"context"
	"errors"
	"math/big"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/mapping"
	"auction-marketplace/internal/metrics"
	"auction-marketplace/internal/pricing"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// MarketService ties ingestion, the snapshot store and dispatch together
// for the HTTP layer.
type MarketService struct {
	registry *Registry
	mapper   *mapping.Mapper
	store    *SnapshotStore
	eventPub domain.EventPublisher
	snapPub  domain.SnapshotPublisher
	clock    domain.Clock
	log      logger.Logger
}

func NewMarketService(
	registry *Registry,
	mapper *mapping.Mapper,
	store *SnapshotStore,
	eventPub domain.EventPublisher,
	snapPub domain.SnapshotPublisher,
	clock domain.Clock,
	log logger.Logger,
) *MarketService {
	if clock == nil {
		clock = time.Now
	}
	return &MarketService{
		registry: registry,
		mapper:   mapper,
		store:    store,
		eventPub: eventPub,
		snapPub:  snapPub,
		clock:    clock,
		log:      log,
	}
}

// IngestResult reports which rows of a batch were stored.
type IngestResult struct {
	Accepted []string             `json:"accepted"`
	Skipped  []mapping.SkippedRow `json:"skipped,omitempty"`
	Stale    []string             `json:"stale,omitempty"`
}

// Ingest maps a batch of raw rows read at blockNumber and replaces the
// stored snapshots. Malformed rows and stale refreshes are reported, not fatal.
func (m *MarketService) Ingest(ctx context.Context, protocol domain.AuctionProtocol, rows [][]any, blockNumber uint64) (*IngestResult, error) {
	if _, err := m.registry.ServiceFor(protocol); err != nil {
		return nil, err
	}

	snapshots, skipped := m.mapper.MapBatch(ctx, protocol, rows, blockNumber)
	result := &IngestResult{Accepted: make([]string, 0, len(snapshots)), Skipped: skipped}

	for _, s := range snapshots {
		stored, previous, err := m.store.Replace(s)
		if err != nil {
			m.log.Warn("Rejected stale snapshot", "auction_id", s.ID.Encode(), "block", blockNumber, "error", err)
			result.Stale = append(result.Stale, s.ID.Encode())
			continue
		}
		result.Accepted = append(result.Accepted, stored.ID.Encode())
		m.publish(ctx, stored, previous)
	}

	m.log.Info("Ingested auction snapshots",
		"protocol", protocol.String(),
		"block", blockNumber,
		"accepted", len(result.Accepted),
		"skipped", len(result.Skipped),
		"stale", len(result.Stale))
	return result, nil
}

// publish fans a replacement out to the feed and the bid recorder. Failures
// are logged; the store already holds the new snapshot.
func (m *MarketService) publish(ctx context.Context, stored, previous *domain.AuctionSnapshot) {
	if m.snapPub != nil {
		if err := m.snapPub.PublishSnapshot(ctx, stored); err != nil {
			m.log.Error("Failed to publish snapshot", "auction_id", stored.ID.Encode(), "error", err)
		}
	}
	if m.eventPub == nil {
		return
	}
	for _, event := range snapshotEvents(stored, previous, m.clock()) {
		if err := m.eventPub.PublishAuctionEvent(ctx, event); err != nil {
			m.log.Error("Failed to publish auction event", "auction_id", event.AuctionID, "type", event.Type, "error", err)
		}
	}
}

// snapshotEvents derives the events implied by going from previous to stored.
func snapshotEvents(stored, previous *domain.AuctionSnapshot, now time.Time) []*domain.AuctionEvent {
	var events []*domain.AuctionEvent
	id := stored.ID.Encode()

	if stored.ID.Protocol == domain.ProtocolAscending && stored.HasHighestBid() {
		changed := previous == nil ||
			previous.CurrentHighestBid == nil ||
			previous.CurrentHighestBid.Cmp(stored.CurrentHighestBid) != 0 ||
			previous.Winner != stored.Winner
		if changed {
			events = append(events, &domain.AuctionEvent{
				Type:      domain.EventBidAccepted,
				AuctionID: id,
				Bidder:    stored.Winner.Hex(),
				Amount:    stored.CurrentHighestBid.String(),
				Display:   utils.FormatUnits(stored.CurrentHighestBid, utils.TokenDecimals),
				Revision:  stored.Revision,
				Block:     stored.BlockNumber,
				Timestamp: now,
			})
		}
	}

	if stored.IsClaimed && (previous == nil || !previous.IsClaimed) {
		events = append(events, &domain.AuctionEvent{
			Type:      domain.EventAuctionClaimed,
			AuctionID: id,
			Bidder:    stored.Winner.Hex(),
			Revision:  stored.Revision,
			Block:     stored.BlockNumber,
			Timestamp: now,
		})
	}
	return events
}

func (m *MarketService) now() int64 { return m.clock().Unix() }

// lookup decodes an external id and fetches its snapshot and service.
func (m *MarketService) lookup(encodedID string) (*domain.AuctionSnapshot, AuctionService, error) {
	id, err := domain.DecodeAuctionID(encodedID)
	if err != nil {
		return nil, nil, err
	}
	svc, err := m.registry.ServiceFor(id.Protocol)
	if err != nil {
		return nil, nil, err
	}
	s, err := m.store.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return s, svc, nil
}

func (m *MarketService) GetAuction(ctx context.Context, encodedID string) (*domain.EnrichedSnapshot, error) {
	s, _, err := m.lookup(encodedID)
	if err != nil {
		return nil, err
	}
	return m.enrich(s)
}

// ListAuctions enriches every stored snapshot of the given protocols.
func (m *MarketService) ListAuctions(ctx context.Context, protocols ...domain.AuctionProtocol) ([]*domain.EnrichedSnapshot, error) {
	snapshots := m.store.List(protocols...)
	out := make([]*domain.EnrichedSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		e, err := m.enrich(s)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MarketService) enrich(s *domain.AuctionSnapshot) (*domain.EnrichedSnapshot, error) {
	e, err := pricing.Enrich(s, m.now())
	if err != nil {
		return nil, m.refuse(s.ID.Protocol, "enrich", err)
	}
	return e, nil
}

func (m *MarketService) QuotePrice(ctx context.Context, encodedID string) (domain.Quote, error) {
	s, svc, err := m.lookup(encodedID)
	if err != nil {
		return domain.Quote{}, err
	}
	q, err := svc.QuotePrice(s, m.now())
	if err != nil {
		return domain.Quote{}, m.refuse(s.ID.Protocol, "quote", err)
	}
	return q, nil
}

func (m *MarketService) ValidateBid(ctx context.Context, encodedID string, amount *big.Int) error {
	s, svc, err := m.lookup(encodedID)
	if err != nil {
		return err
	}
	return m.refuse(s.ID.Protocol, "validate_bid", svc.ValidateBid(s, amount, m.now()))
}

// BuildPurchaseOrBid validates against the latest snapshot and returns the
// transaction bundle. The caller's revision, if any, must still be current.
func (m *MarketService) BuildPurchaseOrBid(ctx context.Context, encodedID string, req OperationRequest) (*domain.TxOperation, error) {
	return m.build(encodedID, req, func(svc AuctionService, s *domain.AuctionSnapshot, now int64) (*domain.TxOperation, error) {
		return svc.BuildPurchaseOrBidOperation(s, req, now)
	})
}

func (m *MarketService) BuildFundsWithdrawal(ctx context.Context, encodedID string, req OperationRequest) (*domain.TxOperation, error) {
	return m.build(encodedID, req, func(svc AuctionService, s *domain.AuctionSnapshot, now int64) (*domain.TxOperation, error) {
		return svc.BuildFundsWithdrawalOperation(s, req, now)
	})
}

type buildFunc func(svc AuctionService, s *domain.AuctionSnapshot, now int64) (*domain.TxOperation, error)

func (m *MarketService) build(encodedID string, req OperationRequest, fn buildFunc) (*domain.TxOperation, error) {
	s, svc, err := m.lookup(encodedID)
	if err != nil {
		return nil, err
	}
	if err := m.store.CheckRevision(s.ID, req.Revision); err != nil {
		return nil, err
	}

	op, err := fn(svc, s, m.now())
	if err != nil {
		return nil, m.refuse(s.ID.Protocol, "build_operation", err)
	}

	metrics.OperationsBuilt.WithLabelValues(s.ID.Protocol.String(), string(op.Kind)).Inc()
	m.log.Info("Built transaction operation",
		"operation_id", op.ID,
		"auction_id", op.AuctionID,
		"kind", op.Kind,
		"revision", op.Revision)
	return op, nil
}

// refuse logs programmer errors loudly and counts them. Other errors pass
// through untouched.
func (m *MarketService) refuse(protocol domain.AuctionProtocol, operation string, err error) error {
	if err == nil || !domain.IsProgrammerError(err) {
		return err
	}
	reason := "unsupported_operation"
	if errors.Is(err, domain.ErrUnknownProtocol) {
		reason = "unknown_protocol"
	}
	m.log.Error("Refused auction operation", "protocol", protocol.String(), "operation", operation, "error", err)
	metrics.DispatchRefusals.WithLabelValues(protocol.String(), reason).Inc()
	return err
}
