package mapping

import (
	"context"
	"fmt"
	"math/big"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/metrics"
	"auction-marketplace/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

// Mapper turns raw contract records into AuctionSnapshots.
type Mapper struct {
	resolver domain.TokenNameResolver
	logger   logger.Logger
}

// NewMapper accepts a nil resolver; symbols are then left empty.
func NewMapper(resolver domain.TokenNameResolver, log logger.Logger) *Mapper {
	if log == nil {
		log = logger.NewNop()
	}
	return &Mapper{resolver: resolver, logger: log}
}

// MapRawAuction is the one-shot form of Mapper.MapRawAuction.
func MapRawAuction(ctx context.Context, protocol domain.AuctionProtocol, fields []any, resolver domain.TokenNameResolver) (*domain.AuctionSnapshot, error) {
	return NewMapper(resolver, nil).MapRawAuction(ctx, protocol, fields, 0)
}

// MapRawAuction validates the arity and every field of a raw record. It
// returns either a complete snapshot or an error, never a partial value.
// Token symbol lookups that fail leave the symbol empty.
func (m *Mapper) MapRawAuction(ctx context.Context, protocol domain.AuctionProtocol, fields []any, blockNumber uint64) (*domain.AuctionSnapshot, error) {
	layout, ok := layouts[protocol]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownProtocol, uint8(protocol))
	}
	if len(fields) != len(layout) {
		return nil, &domain.ArityError{Protocol: protocol, Want: len(layout), Got: len(fields)}
	}

	r := &record{protocol: protocol, layout: layout, fields: fields}
	s := &domain.AuctionSnapshot{BlockNumber: blockNumber}

	number := r.uint256(fieldID)
	s.Name = r.text(fieldName)
	s.Description = r.text(fieldDescription)
	s.ImageURL = r.text(fieldImageURL)
	s.Auctioneer = r.address(fieldAuctioneer)
	s.AuctionedAsset = domain.AuctionedAsset{
		Token:         r.address(fieldAuctionedToken),
		IDOrAmount:    r.uint256(fieldIDOrAmount),
		IsNonFungible: r.assetKind(fieldAuctionType) == domain.AssetNFT,
	}
	s.BiddingAsset = domain.BiddingAsset{Token: r.address(fieldBiddingToken)}
	s.AvailableFunds = r.uint256(fieldAvailableFunds)
	s.Winner = r.address(fieldWinner)
	s.IsClaimed = r.boolean(fieldIsClaimed)

	switch protocol {
	case domain.ProtocolAscending:
		s.StartingPrice = r.uint256(fieldStartingBid)
		s.MinBidDelta = r.uint256(fieldMinBidDelta)
		s.CurrentHighestBid = r.uint256(fieldHighestBid)
		s.Deadline = r.seconds(fieldDeadline)
		s.Duration = r.seconds(fieldDuration)
		if r.err == nil && s.Duration > s.Deadline {
			r.fail(fieldDuration)
		}
	case domain.ProtocolSealedBid:
		s.StartingPrice = r.uint256(fieldMinBid)
		s.WinningBid = r.uint256(fieldWinningBid)
		s.CommitPhaseEnd = r.seconds(fieldCommitEnd)
		s.RevealPhaseEnd = r.seconds(fieldRevealEnd)
		s.Deadline = s.RevealPhaseEnd
		s.Duration = s.RevealPhaseEnd - s.CommitPhaseEnd
		if r.err == nil && s.Duration < 0 {
			r.fail(fieldRevealEnd)
		}
	default:
		s.StartingPrice = r.uint256(fieldStartingPrice)
		s.ReservedPrice = r.uint256(fieldReservedPrice)
		s.Deadline = r.seconds(fieldDeadline)
		s.Duration = r.seconds(fieldDuration)
		if r.err == nil && s.Duration > s.Deadline {
			r.fail(fieldDuration)
		}
		if r.err == nil && s.ReservedPrice.Cmp(s.StartingPrice) > 0 {
			r.fail(fieldReservedPrice)
		}
	}

	if r.err != nil {
		return nil, r.err
	}

	id, err := domain.NewAuctionID(protocol, number)
	if err != nil {
		return nil, err
	}
	s.ID = id

	s.AuctionedAsset.Symbol = m.symbol(ctx, s.AuctionedAsset.Token)
	s.BiddingAsset.Symbol = m.symbol(ctx, s.BiddingAsset.Token)
	return s, nil
}

func (m *Mapper) symbol(ctx context.Context, token common.Address) string {
	if m.resolver == nil {
		return ""
	}
	symbol, err := m.resolver.TokenSymbol(ctx, token)
	if err != nil {
		m.logger.Warn("Token symbol lookup failed", "token", token.Hex(), "error", err)
		return ""
	}
	return symbol
}

// SkippedRow records why a row of a batch was dropped.
type SkippedRow struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// MapBatch maps rows read in ascending id order and returns the snapshots
// newest first. Malformed rows are skipped and reported, never fatal.
func (m *Mapper) MapBatch(ctx context.Context, protocol domain.AuctionProtocol, rows [][]any, blockNumber uint64) ([]*domain.AuctionSnapshot, []SkippedRow) {
	snapshots := make([]*domain.AuctionSnapshot, 0, len(rows))
	var skipped []SkippedRow

	for i := len(rows) - 1; i >= 0; i-- {
		s, err := m.MapRawAuction(ctx, protocol, rows[i], blockNumber)
		if err != nil {
			m.logger.Warn("Skipping malformed auction row", "protocol", protocol.String(), "index", i, "error", err)
			metrics.SkippedRows.WithLabelValues(protocol.String()).Inc()
			skipped = append(skipped, SkippedRow{Index: i, Error: err.Error()})
			continue
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, skipped
}

// record reads named fields and keeps the first failure.
type record struct {
	protocol domain.AuctionProtocol
	layout   []string
	fields   []any
	err      error
}

func (r *record) value(name string) any {
	for i, n := range r.layout {
		if n == name {
			return r.fields[i]
		}
	}
	panic("mapping: field " + name + " not in layout")
}

func (r *record) fail(name string) {
	if r.err == nil {
		r.err = &domain.ArityError{Protocol: r.protocol, Want: len(r.layout), Got: len(r.fields), Field: name}
	}
}

func (r *record) check(name string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%w: %v", &domain.ArityError{Protocol: r.protocol, Want: len(r.layout), Got: len(r.fields), Field: name}, err)
	}
}

func (r *record) uint256(name string) *big.Int {
	v := r.value(name)
	if v == nil {
		r.fail(name)
		return nil
	}
	n, err := toUint256(v)
	r.check(name, err)
	return n
}

func (r *record) seconds(name string) int64 {
	v := r.value(name)
	if v == nil {
		r.fail(name)
		return 0
	}
	n, err := toUnixSeconds(v)
	r.check(name, err)
	return n
}

func (r *record) address(name string) common.Address {
	v := r.value(name)
	if v == nil {
		r.fail(name)
		return common.Address{}
	}
	a, err := toAddress(v)
	r.check(name, err)
	return a
}

func (r *record) boolean(name string) bool {
	v := r.value(name)
	if v == nil {
		r.fail(name)
		return false
	}
	b, err := toBool(v)
	r.check(name, err)
	return b
}

// text allows nil: metadata strings are optional on-chain.
func (r *record) text(name string) string {
	v := r.value(name)
	if v == nil {
		return ""
	}
	s, err := toText(v)
	r.check(name, err)
	return s
}

func (r *record) assetKind(name string) domain.AssetKind {
	n := r.uint256(name)
	if n == nil {
		return domain.AssetNFT
	}
	switch {
	case n.Cmp(big.NewInt(int64(domain.AssetNFT))) == 0:
		return domain.AssetNFT
	case n.Cmp(big.NewInt(int64(domain.AssetERC20))) == 0:
		return domain.AssetERC20
	default:
		r.fail(name)
		return domain.AssetNFT
	}
}
