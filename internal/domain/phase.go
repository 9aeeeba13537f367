package domain

// Phase is the lifecycle phase of a sealed-bid auction. PhaseNone is
// reported for every other protocol.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseCommit
	PhaseReveal
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseReveal:
		return "reveal"
	case PhaseEnded:
		return "ended"
	default:
		return "none"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// AuctionStatus is the display state derived from a snapshot and a clock.
type AuctionStatus int

const (
	AuctionUpcoming AuctionStatus = iota
	AuctionActive
	AuctionEnded
	AuctionClaimed
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionUpcoming:
		return "upcoming"
	case AuctionActive:
		return "active"
	case AuctionEnded:
		return "ended"
	case AuctionClaimed:
		return "claimed"
	default:
		return "unknown"
	}
}

func (s AuctionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
