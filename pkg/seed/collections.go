package seed

import (
	"context"
	"fmt"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// EnsureCollection creates every record in the collection uid, published,
// but only when the collection is empty. A collection holding any
// document, in any state, is left alone. Returns the created documents,
// or nil if the collection was already populated.
func EnsureCollection(ctx context.Context, store document.Store, uid string, records []document.Fields) ([]document.Document, error) {
	first, err := store.FindFirst(ctx, uid, nil)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", uid, err)
	}
	if first != nil {
		return nil, nil
	}

	created := make([]document.Document, 0, len(records))
	for i, data := range records {
		doc, err := store.Create(ctx, uid, document.CreateParams{
			Data:   data.Clone(),
			Status: document.StatusPublished,
		})
		if err != nil {
			return created, fmt.Errorf("create %s record %d: %w", uid, i, err)
		}
		created = append(created, *doc)
	}
	return created, nil
}

// EnsureSingleton creates the single document of uid, published, if it
// doesn't exist. Returns the created document, or nil if one existed.
func EnsureSingleton(ctx context.Context, store document.Store, uid string, data document.Fields) (*document.Document, error) {
	existing, err := store.FindFirst(ctx, uid, nil)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", uid, err)
	}
	if existing != nil {
		return nil, nil
	}

	doc, err := store.Create(ctx, uid, document.CreateParams{
		Data:   data.Clone(),
		Status: document.StatusPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", uid, err)
	}
	return doc, nil
}
