package services

import (
	"fmt"
	"sort"
	"sync"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/metrics"
)

// SnapshotStore is the replace-on-refresh cache. Stored snapshots are never
// mutated, so readers get either the previous or the new value whole.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.AuctionSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]*domain.AuctionSnapshot)}
}

// Replace stores s under its encoded id with the next revision and returns
// the stored value and the one it replaced (nil on first insert). A refresh
// read at an older block, one that un-claims a claimed auction, or one that
// moves the deadline backwards is rejected with ErrStaleSnapshot.
func (st *SnapshotStore) Replace(s *domain.AuctionSnapshot) (stored, previous *domain.AuctionSnapshot, err error) {
	key := s.ID.Encode()

	st.mu.Lock()
	defer st.mu.Unlock()

	previous = st.snapshots[key]
	var revision uint64 = 1
	if previous != nil {
		if err := checkRefresh(previous, s); err != nil {
			metrics.StaleRefreshes.WithLabelValues(s.ID.Protocol.String()).Inc()
			return nil, previous, err
		}
		revision = previous.Revision + 1
	}

	stored = s.WithRevision(revision)
	st.snapshots[key] = stored
	metrics.SnapshotReplacements.WithLabelValues(s.ID.Protocol.String()).Inc()
	return stored, previous, nil
}

// Mirror stores a snapshot that already carries the revision assigned by the
// publishing instance. It is ignored unless its revision or its block is newer
// than what is held; a restarted publisher starts counting from 1 again.
func (st *SnapshotStore) Mirror(s *domain.AuctionSnapshot) error {
	key := s.ID.Encode()

	st.mu.Lock()
	defer st.mu.Unlock()

	if previous := st.snapshots[key]; previous != nil &&
		s.Revision <= previous.Revision && s.BlockNumber <= previous.BlockNumber {
		return &domain.StaleSnapshotError{AuctionID: key, Revision: s.Revision, Latest: previous.Revision}
	}
	st.snapshots[key] = s
	return nil
}

func checkRefresh(previous, next *domain.AuctionSnapshot) error {
	switch {
	case next.BlockNumber < previous.BlockNumber:
		return fmt.Errorf("%w: %s read at block %d, already have block %d",
			domain.ErrStaleSnapshot, next.ID, next.BlockNumber, previous.BlockNumber)
	case previous.IsClaimed && !next.IsClaimed:
		return fmt.Errorf("%w: %s is claimed, refresh reports it unclaimed", domain.ErrStaleSnapshot, next.ID)
	case next.Deadline < previous.Deadline:
		return fmt.Errorf("%w: %s deadline moved back from %d to %d",
			domain.ErrStaleSnapshot, next.ID, previous.Deadline, next.Deadline)
	}
	return nil
}

func (st *SnapshotStore) Get(id domain.AuctionID) (*domain.AuctionSnapshot, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.snapshots[id.Encode()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, id)
	}
	return s, nil
}

// CheckRevision fails when revision is set and older than the stored one.
func (st *SnapshotStore) CheckRevision(id domain.AuctionID, revision uint64) error {
	if revision == 0 {
		return nil
	}
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	if revision < s.Revision {
		metrics.StaleRefreshes.WithLabelValues(id.Protocol.String()).Inc()
		return &domain.StaleSnapshotError{AuctionID: id.Encode(), Revision: revision, Latest: s.Revision}
	}
	return nil
}

// List returns the stored snapshots of the given protocols (all when none
// are given), newest auction first.
func (st *SnapshotStore) List(protocols ...domain.AuctionProtocol) []*domain.AuctionSnapshot {
	want := make(map[domain.AuctionProtocol]bool, len(protocols))
	for _, p := range protocols {
		want[p] = true
	}

	st.mu.RLock()
	out := make([]*domain.AuctionSnapshot, 0, len(st.snapshots))
	for _, s := range st.snapshots {
		if len(want) == 0 || want[s.ID.Protocol] {
			out = append(out, s)
		}
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ID.Protocol != out[j].ID.Protocol {
			return out[i].ID.Protocol < out[j].ID.Protocol
		}
		return out[i].ID.Number.Cmp(out[j].ID.Number) > 0
	})
	return out
}

func (st *SnapshotStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.snapshots)
}
