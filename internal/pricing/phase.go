package pricing

import (
	"math/big"

	"auction-marketplace/internal/domain"
)

// ResolvePhase maps an instant onto the commit/reveal windows. The lower
// bound of each window is inclusive: at exactly commitEnd the auction is
// already in Reveal, at exactly revealEnd it has Ended.
func ResolvePhase(commitEnd, revealEnd, now int64) domain.Phase {
	switch {
	case now < commitEnd:
		return domain.PhaseCommit
	case now < revealEnd:
		return domain.PhaseReveal
	default:
		return domain.PhaseEnded
	}
}

// SnapshotPhase returns PhaseNone for protocols without phases.
func SnapshotPhase(s *domain.AuctionSnapshot, now int64) domain.Phase {
	if s.ID.Protocol != domain.ProtocolSealedBid {
		return domain.PhaseNone
	}
	return ResolvePhase(s.CommitPhaseEnd, s.RevealPhaseEnd, now)
}

// RequirePhase is the oracle used before a commit or reveal is submitted.
func RequirePhase(s *domain.AuctionSnapshot, want domain.Phase, now int64) error {
	if s.ID.Protocol != domain.ProtocolSealedBid {
		return &domain.UnsupportedOperationError{Protocol: s.ID.Protocol, Operation: want.String() + " bid"}
	}
	if s.IsClaimed {
		return domain.ErrAuctionAlreadyClaimed
	}
	got := SnapshotPhase(s, now)
	if got == want {
		return nil
	}
	if got == domain.PhaseEnded {
		return &domain.AuctionEndedError{Deadline: s.RevealPhaseEnd}
	}
	return &domain.WrongPhaseError{Want: want, Got: got}
}

// SealedQuote hides the price until the reveal phase completes. Afterwards it
// reports the winning bid, if one was revealed.
func SealedQuote(s *domain.AuctionSnapshot, now int64) domain.Quote {
	if !s.IsClaimed && SnapshotPhase(s, now) != domain.PhaseEnded {
		return domain.Quote{Hidden: true, AsOf: now}
	}
	q := domain.Quote{AsOf: now}
	if s.WinningBid != nil && s.WinningBid.Sign() > 0 {
		q.Price = new(big.Int).Set(s.WinningBid)
	}
	return q
}
