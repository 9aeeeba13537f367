package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
)

// ErrUnknownToken is returned when no layer knows the token.
var ErrUnknownToken = errors.New("unknown token")

// Resolver answers symbol lookups from an in-process LRU, then the shared
// cache, then the static table from configuration. Shared-cache hits and
// static hits are promoted into the faster layers.
type Resolver struct {
	local  *lru.Cache
	shared domain.TokenSymbolCache
	static map[common.Address]string
	log    logger.Logger
}

func NewResolver(size int, shared domain.TokenSymbolCache, static map[string]string, log logger.Logger) (*Resolver, error) {
	local, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	table := make(map[common.Address]string, len(static))
	for addr, symbol := range static {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("token table: invalid address %q", addr)
		}
		table[common.HexToAddress(addr)] = strings.TrimSpace(symbol)
	}

	return &Resolver{local: local, shared: shared, static: table, log: log}, nil
}

func (r *Resolver) TokenSymbol(ctx context.Context, token common.Address) (string, error) {
	if v, ok := r.local.Get(token); ok {
		return v.(string), nil
	}

	if r.shared != nil {
		symbol, ok, err := r.shared.GetSymbol(ctx, token)
		if err != nil {
			r.log.Warn("Shared symbol cache unavailable", "token", token.Hex(), "error", err)
		} else if ok {
			r.local.Add(token, symbol)
			return symbol, nil
		}
	}

	if symbol, ok := r.static[token]; ok {
		r.remember(ctx, token, symbol)
		return symbol, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownToken, token.Hex())
}

// Register records a symbol supplied by a collaborator.
func (r *Resolver) Register(ctx context.Context, token common.Address, symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", domain.ErrInvalidRequest)
	}
	r.local.Add(token, symbol)
	if r.shared == nil {
		return nil
	}
	return r.shared.SetSymbol(ctx, token, symbol)
}

func (r *Resolver) remember(ctx context.Context, token common.Address, symbol string) {
	r.local.Add(token, symbol)
	if r.shared == nil {
		return
	}
	if err := r.shared.SetSymbol(ctx, token, symbol); err != nil {
		r.log.Warn("Failed to share token symbol", "token", token.Hex(), "error", err)
	}
}
