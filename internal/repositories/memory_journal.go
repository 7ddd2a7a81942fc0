package repositories

import (
	"context"
	"fmt"
	"sync"
)

// MemoryDeliveryJournal is an in-process DeliveryJournal for deployments
// without MongoDB and for tests. Same semantics as the Mongo journal, minus
// durability across restarts.
type MemoryDeliveryJournal struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDeliveryJournal creates an empty in-memory journal.
func NewMemoryDeliveryJournal() *MemoryDeliveryJournal {
	return &MemoryDeliveryJournal{seen: make(map[string]struct{})}
}

func (j *MemoryDeliveryJournal) Reserve(_ context.Context, recipientID uint, kind string, postID uint) (bool, error) {
	key := fmt.Sprintf("%d/%s/%d", recipientID, kind, postID)
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.seen[key]; ok {
		return false, nil
	}
	j.seen[key] = struct{}{}
	return true, nil
}
