package domain

import (
	"fmt"
	"strings"
)

// AuctionProtocol selects the pricing and validation rules of an auction.
// It is fixed when the auction is created.
type AuctionProtocol uint8

const (
	ProtocolAscending AuctionProtocol = iota + 1
	ProtocolLinearDecay
	ProtocolExponentialDecay
	ProtocolLogarithmicDecay
	ProtocolSealedBid
)

var protocolTags = map[AuctionProtocol]string{
	ProtocolAscending:        "english",
	ProtocolLinearDecay:      "linear",
	ProtocolExponentialDecay: "exponential",
	ProtocolLogarithmicDecay: "logarithmic",
	ProtocolSealedBid:        "vickrey",
}

// AllProtocols lists every protocol in declaration order.
func AllProtocols() []AuctionProtocol {
	return []AuctionProtocol{
		ProtocolAscending,
		ProtocolLinearDecay,
		ProtocolExponentialDecay,
		ProtocolLogarithmicDecay,
		ProtocolSealedBid,
	}
}

func (p AuctionProtocol) String() string {
	if tag, ok := protocolTags[p]; ok {
		return tag
	}
	return fmt.Sprintf("protocol(%d)", uint8(p))
}

func (p AuctionProtocol) Valid() bool {
	_, ok := protocolTags[p]
	return ok
}

// IsDecaying reports whether the protocol settles by direct purchase at a
// time-decaying price.
func (p AuctionProtocol) IsDecaying() bool {
	switch p {
	case ProtocolLinearDecay, ProtocolExponentialDecay, ProtocolLogarithmicDecay:
		return true
	}
	return false
}

// ParseProtocol accepts a protocol tag case-insensitively.
func ParseProtocol(tag string) (AuctionProtocol, error) {
	needle := strings.ToLower(strings.TrimSpace(tag))
	for p, t := range protocolTags {
		if t == needle {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, tag)
}

func (p AuctionProtocol) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProtocol, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *AuctionProtocol) UnmarshalText(text []byte) error {
	parsed, err := ParseProtocol(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
