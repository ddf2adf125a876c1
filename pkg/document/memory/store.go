package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// Ensure Store implements document.Store
var _ document.Store = (*Store)(nil)

type record struct {
	id          int64
	documentID  string
	status      document.Status
	data        []byte
	createdAt   time.Time
	updatedAt   time.Time
	publishedAt *time.Time
}

// Store is an in-memory document store. Documents are kept as encoded
// JSON so callers never share mutable state with the store.
type Store struct {
	mu          sync.RWMutex
	schema      document.Schema
	nextID      int64
	collections map[string][]*record
	now         func() time.Time
}

// New creates an empty store for the given schema
func New(schema document.Schema) *Store {
	return &Store{
		schema:      schema,
		collections: make(map[string][]*record),
		now:         time.Now,
	}
}

// FindFirst returns the first matching document, or nil
func (s *Store) FindFirst(ctx context.Context, uid string, filter document.Filter) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	for _, rec := range s.collections[uid] {
		doc, err := rec.document(ct)
		if err != nil {
			return nil, err
		}
		if filter.Matches(doc.Data) {
			return doc, nil
		}
	}
	return nil, nil
}

// FindMany returns all matching documents in insertion (ID) order
func (s *Store) FindMany(ctx context.Context, uid string, filter document.Filter) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	docs := []document.Document{}
	for _, rec := range s.collections[uid] {
		doc, err := rec.document(ct)
		if err != nil {
			return nil, err
		}
		if filter.Matches(doc.Data) {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// Create inserts a new document
func (s *Store) Create(ctx context.Context, uid string, params document.CreateParams) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	data, err := document.Normalize(params.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", uid, err)
	}
	if err := document.ResolveRelations(ctx, ct, data, s.resolve); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", uid, err)
	}
	documentID, err := document.NewDocumentID()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	s.nextID++
	rec := &record{
		id:         s.nextID,
		documentID: documentID,
		status:     params.Status,
		data:       raw,
		createdAt:  now,
		updatedAt:  now,
	}
	if params.Status == document.StatusPublished {
		rec.publishedAt = &now
	}
	s.collections[uid] = append(s.collections[uid], rec)

	return rec.document(ct)
}

// Update merges params.Data into an existing document
func (s *Store) Update(ctx context.Context, uid string, params document.UpdateParams) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	rec := s.lookup(uid, document.Ref{ID: params.ID, DocumentID: params.DocumentID})
	if rec == nil {
		return nil, fmt.Errorf("%s %s: %w", uid, document.Ref{ID: params.ID, DocumentID: params.DocumentID}, document.ErrNotFound)
	}

	patch, err := document.Normalize(params.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", uid, err)
	}
	if err := document.ResolveRelations(ctx, ct, patch, s.resolve); err != nil {
		return nil, err
	}
	var data document.Fields
	if err := json.Unmarshal(rec.data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode %s %d: %w", uid, rec.id, err)
	}
	if data == nil {
		data = document.Fields{}
	}
	for k, v := range patch {
		data[k] = v
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", uid, err)
	}

	now := s.now().UTC()
	rec.data = raw
	rec.updatedAt = now
	rec.status = params.Status
	if params.Status == document.StatusPublished {
		if rec.publishedAt == nil {
			rec.publishedAt = &now
		}
	} else {
		rec.publishedAt = nil
	}

	return rec.document(ct)
}

// Count returns the number of documents in a collection
func (s *Store) Count(uid string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[uid])
}

// resolve is called with the lock already held
func (s *Store) resolve(_ context.Context, uid string, ref document.Ref) (*document.Document, error) {
	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	rec := s.lookup(uid, ref)
	if rec == nil {
		return nil, nil
	}
	return rec.document(ct)
}

func (s *Store) lookup(uid string, ref document.Ref) *record {
	for _, rec := range s.collections[uid] {
		if ref.DocumentID != "" {
			if rec.documentID == ref.DocumentID {
				return rec
			}
			continue
		}
		if ref.ID != 0 && rec.id == ref.ID {
			return rec
		}
	}
	return nil
}

func (r *record) document(ct document.ContentType) (*document.Document, error) {
	var data document.Fields
	if err := json.Unmarshal(r.data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode %s %d: %w", ct.UID, r.id, err)
	}
	if data == nil {
		data = document.Fields{}
	}
	document.DecodeRelations(ct, data)

	doc := &document.Document{
		ID:         r.id,
		DocumentID: r.documentID,
		Status:     r.status,
		Data:       data,
		CreatedAt:  r.createdAt,
		UpdatedAt:  r.updatedAt,
	}
	if r.publishedAt != nil {
		published := *r.publishedAt
		doc.PublishedAt = &published
	}
	return doc, nil
}
