package pricing

import (
	"fmt"

	"auction-marketplace/internal/domain"
)

// Quote reports the transaction price at now: the current decayed price, the
// minimum next bid for ascending auctions, or the sealed-bid quote.
func Quote(s *domain.AuctionSnapshot, now int64) (domain.Quote, error) {
	switch s.ID.Protocol {
	case domain.ProtocolLinearDecay, domain.ProtocolExponentialDecay, domain.ProtocolLogarithmicDecay:
		price, err := CurrentPrice(s, now)
		if err != nil {
			return domain.Quote{}, err
		}
		return domain.Quote{Price: price, AsOf: now}, nil
	case domain.ProtocolAscending:
		return domain.Quote{Price: MinimumNextBid(s), AsOf: now}, nil
	case domain.ProtocolSealedBid:
		return SealedQuote(s, now), nil
	default:
		return domain.Quote{}, fmt.Errorf("%w: %s", domain.ErrUnknownProtocol, s.ID.Protocol)
	}
}

// Status derives the display state of a snapshot at now.
func Status(s *domain.AuctionSnapshot, now int64) domain.AuctionStatus {
	if s.IsClaimed {
		return domain.AuctionClaimed
	}
	if s.ID.Protocol == domain.ProtocolSealedBid {
		if SnapshotPhase(s, now) == domain.PhaseEnded {
			return domain.AuctionEnded
		}
		return domain.AuctionActive
	}
	switch {
	case now >= s.Deadline:
		return domain.AuctionEnded
	case now < s.StartTime():
		return domain.AuctionUpcoming
	default:
		return domain.AuctionActive
	}
}

// Enrich computes every derived value of s at now in one step.
func Enrich(s *domain.AuctionSnapshot, now int64) (*domain.EnrichedSnapshot, error) {
	quote, err := Quote(s, now)
	if err != nil {
		return nil, err
	}

	enriched := &domain.EnrichedSnapshot{
		Snapshot: s,
		AsOf:     now,
		Status:   Status(s, now),
		Phase:    SnapshotPhase(s, now),
		Quote:    quote,
	}
	if s.ID.Protocol == domain.ProtocolAscending {
		enriched.MinimumNextBid = MinimumNextBid(s)
	}
	return enriched, nil
}
