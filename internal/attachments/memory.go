package attachments

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryAttachmentRepository is an in-memory attachment store for
// scaffolding/tests.
type MemoryAttachmentRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Attachment
}

// NewMemoryAttachmentRepository constructs the repository.
func NewMemoryAttachmentRepository() *MemoryAttachmentRepository {
	return &MemoryAttachmentRepository{
		records: make(map[uuid.UUID]*Attachment),
	}
}

// Put seeds a record directly.
func (m *MemoryAttachmentRepository) Put(record *Attachment) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = cloneAttachment(record)
}

// GetByID retrieves a single attachment.
func (m *MemoryAttachmentRepository) GetByID(_ context.Context, id uuid.UUID) (*Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &AttachmentsNotFoundError{IDs: []uuid.UUID{id}}
	}
	return cloneAttachment(record), nil
}

// GetByIDs resolves every id in input order, reporting all missing ids at once.
func (m *MemoryAttachmentRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Attachment, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		record, ok := m.records[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, cloneAttachment(record))
	}
	if len(missing) > 0 {
		return nil, &AttachmentsNotFoundError{IDs: missing}
	}
	return out, nil
}
