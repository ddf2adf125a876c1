package gorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
	"github.com/smokinadorabulls/kennel-cms/pkg/model"
)

// Ensure Store implements document.Store
var _ document.Store = (*Store)(nil)

// Store implements document.Store on the documents table using GORM
type Store struct {
	db     *gorm.DB
	schema document.Schema
	now    func() time.Time
}

// NewStore creates a new Store
func NewStore(db *gorm.DB, schema document.Schema) *Store {
	return &Store{db: db, schema: schema, now: time.Now}
}

// FindFirst returns the first matching document, or nil
func (s *Store) FindFirst(ctx context.Context, uid string, filter document.Filter) (*document.Document, error) {
	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	q, err := scope(s.db.WithContext(ctx), uid, filter)
	if err != nil {
		return nil, err
	}

	var rows []model.Document
	if err := q.Order("id").Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", uid, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	doc := toDocument(ct, rows[0])
	return &doc, nil
}

// FindMany returns all matching documents in ascending ID order
func (s *Store) FindMany(ctx context.Context, uid string, filter document.Filter) ([]document.Document, error) {
	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	q, err := scope(s.db.WithContext(ctx), uid, filter)
	if err != nil {
		return nil, err
	}

	var rows []model.Document
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", uid, err)
	}
	docs := make([]document.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, toDocument(ct, row))
	}
	return docs, nil
}

// Create inserts a new document
func (s *Store) Create(ctx context.Context, uid string, params document.CreateParams) (*document.Document, error) {
	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	data, err := document.Normalize(params.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", uid, err)
	}
	documentID, err := document.NewDocumentID()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	row := model.Document{
		DocumentID: documentID,
		Collection: uid,
		Status:     params.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if params.Status == document.StatusPublished {
		row.PublishedAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := document.ResolveRelations(ctx, ct, data, resolver(tx)); err != nil {
			return err
		}
		row.Data = model.JSONMap(data)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", uid, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc := toDocument(ct, row)
	return &doc, nil
}

// Update merges params.Data into an existing document
func (s *Store) Update(ctx context.Context, uid string, params document.UpdateParams) (*document.Document, error) {
	ct, err := s.schema.Lookup(uid)
	if err != nil {
		return nil, err
	}
	patch, err := document.Normalize(params.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", uid, err)
	}
	target := document.Ref{ID: params.ID, DocumentID: params.DocumentID}

	var row model.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findRef(tx, uid, target)
		if err != nil {
			return err
		}
		if found == nil {
			return fmt.Errorf("%s %s: %w", uid, target, document.ErrNotFound)
		}
		row = *found

		if err := document.ResolveRelations(ctx, ct, patch, resolver(tx)); err != nil {
			return err
		}
		if row.Data == nil {
			row.Data = model.JSONMap{}
		}
		for k, v := range patch {
			row.Data[k] = v
		}

		now := s.now().UTC()
		row.Status = params.Status
		row.UpdatedAt = now
		if params.Status != document.StatusPublished {
			row.PublishedAt = nil
		} else if row.PublishedAt == nil {
			row.PublishedAt = &now
		}

		err = tx.Model(&model.Document{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"data":         row.Data,
			"status":       row.Status,
			"updated_at":   row.UpdatedAt,
			"published_at": row.PublishedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update %s %d: %w", uid, row.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc := toDocument(ct, row)
	return &doc, nil
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

func scope(db *gorm.DB, uid string, filter document.Filter) (*gorm.DB, error) {
	q := db.Model(&model.Document{}).Where("collection = ?", uid)
	if len(filter) > 0 {
		raw, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		q = q.Where("data @> ?::jsonb", string(raw))
	}
	return q, nil
}

func findRef(db *gorm.DB, uid string, ref document.Ref) (*model.Document, error) {
	q := db.Where("collection = ?", uid)
	switch {
	case ref.DocumentID != "":
		q = q.Where("document_id = ?", ref.DocumentID)
	case ref.ID != 0:
		q = q.Where("id = ?", ref.ID)
	default:
		return nil, nil
	}

	var row model.Document
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", uid, ref, err)
	}
	return &row, nil
}

func resolver(db *gorm.DB) document.Resolver {
	return func(_ context.Context, uid string, ref document.Ref) (*document.Document, error) {
		row, err := findRef(db, uid, ref)
		if err != nil || row == nil {
			return nil, err
		}
		doc := row.ToDocument()
		return &doc, nil
	}
}

func toDocument(ct document.ContentType, row model.Document) document.Document {
	doc := row.ToDocument()
	doc.Data = document.Fields(row.Data).Clone()
	document.DecodeRelations(ct, doc.Data)
	return doc
}
