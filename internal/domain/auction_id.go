package domain

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

var (
	idEncoding      = base64.RawURLEncoding.Strict()
	canonicalUint   = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)
	idPartSeparator = ":"
)

// AuctionID pairs a protocol with the auction's numeric id inside that
// protocol's contract.
type AuctionID struct {
	Protocol AuctionProtocol
	Number   *big.Int
}

// NewAuctionID rejects unknown protocols and numbers outside the uint256 range.
func NewAuctionID(protocol AuctionProtocol, number *big.Int) (AuctionID, error) {
	if !protocol.Valid() {
		return AuctionID{}, fmt.Errorf("%w: %d", ErrUnknownProtocol, uint8(protocol))
	}
	if number == nil || number.Sign() < 0 || number.Cmp(math.MaxBig256) > 0 {
		return AuctionID{}, fmt.Errorf("%w: auction number %v out of uint256 range", ErrMalformedIdentifier, number)
	}
	return AuctionID{Protocol: protocol, Number: new(big.Int).Set(number)}, nil
}

func MustAuctionID(protocol AuctionProtocol, number int64) AuctionID {
	id, err := NewAuctionID(protocol, big.NewInt(number))
	if err != nil {
		panic(err)
	}
	return id
}

// EncodeAuctionID produces the opaque external id for (protocol, number).
// The mapping is injective: the payload is "<tag>:<canonical decimal>"
// in unpadded URL-safe base64.
func EncodeAuctionID(protocol AuctionProtocol, number *big.Int) string {
	n := "0"
	if number != nil {
		n = number.String()
	}
	return idEncoding.EncodeToString([]byte(protocol.String() + idPartSeparator + n))
}

// DecodeAuctionID is the inverse of EncodeAuctionID.
func DecodeAuctionID(encoded string) (AuctionID, error) {
	raw, err := idEncoding.DecodeString(encoded)
	if err != nil {
		return AuctionID{}, fmt.Errorf("%w: %v", ErrMalformedIdentifier, err)
	}
	// the decoder skips CR/LF, so anything that does not re-encode to the
	// input is a second spelling of some other id
	if idEncoding.EncodeToString(raw) != encoded {
		return AuctionID{}, fmt.Errorf("%w: non-canonical encoding", ErrMalformedIdentifier)
	}

	parts := strings.Split(string(raw), idPartSeparator)
	if len(parts) != 2 || parts[0] == "" {
		return AuctionID{}, fmt.Errorf("%w: expected <protocol>:<number>", ErrMalformedIdentifier)
	}

	var protocol AuctionProtocol
	for p, tag := range protocolTags {
		if tag == parts[0] {
			protocol = p
			break
		}
	}
	if protocol == 0 {
		return AuctionID{}, fmt.Errorf("%w: %q", ErrUnknownProtocol, parts[0])
	}

	if !canonicalUint.MatchString(parts[1]) {
		return AuctionID{}, fmt.Errorf("%w: auction number %q", ErrMalformedIdentifier, parts[1])
	}
	number, ok := new(big.Int).SetString(parts[1], 10)
	if !ok || number.Cmp(math.MaxBig256) > 0 {
		return AuctionID{}, fmt.Errorf("%w: auction number %q", ErrMalformedIdentifier, parts[1])
	}

	return AuctionID{Protocol: protocol, Number: number}, nil
}

func (id AuctionID) Encode() string {
	return EncodeAuctionID(id.Protocol, id.Number)
}

func (id AuctionID) String() string {
	return id.Encode()
}

func (id AuctionID) Equal(other AuctionID) bool {
	if id.Protocol != other.Protocol {
		return false
	}
	if id.Number == nil || other.Number == nil {
		return id.Number == other.Number
	}
	return id.Number.Cmp(other.Number) == 0
}

func (id AuctionID) MarshalText() ([]byte, error) {
	return []byte(id.Encode()), nil
}

func (id *AuctionID) UnmarshalText(text []byte) error {
	decoded, err := DecodeAuctionID(string(text))
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}
