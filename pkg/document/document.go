package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when an update targets a document that doesn't exist
var ErrNotFound = errors.New("document not found")

// ErrUnknownCollection is returned for a collection UID missing from the schema
var ErrUnknownCollection = errors.New("unknown collection")

// ErrRelationTarget is returned when a relation reference can't be resolved
var ErrRelationTarget = errors.New("relation target not found")

// Fields is the attribute body of a document
type Fields map[string]interface{}

// Clone returns a shallow copy of the fields
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Filter matches documents whose top-level fields equal the given values.
// A nil or empty filter matches every document.
type Filter map[string]interface{}

// Document is a record stored in a named collection
type Document struct {
	ID          int64      `json:"id"`
	DocumentID  string     `json:"documentId"`
	Status      Status     `json:"status"`
	Data        Fields     `json:"data"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Ref returns the preferred reference to this document: the stable
// document ID when there is one, the raw ID otherwise.
func (d Document) Ref() Ref {
	if d.DocumentID != "" {
		return Ref{DocumentID: d.DocumentID}
	}
	return Ref{ID: d.ID}
}

// Decode unmarshals the document fields into v
func (d Document) Decode(v interface{}) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("failed to encode document %d: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document %d: %w", d.ID, err)
	}
	return nil
}

// Refs returns the resolved references held by a relation field. A missing
// field yields nil.
func (d Document) Refs(field string) []Ref {
	refs, err := ParseRefs(d.Data[field])
	if err != nil {
		return nil
	}
	return refs
}

// CreateParams holds the input for Store.Create
type CreateParams struct {
	Data   Fields
	Status Status
}

// UpdateParams holds the input for Store.Update. Either ID or DocumentID
// identifies the target; DocumentID wins when both are set.
type UpdateParams struct {
	ID         int64
	DocumentID string
	Data       Fields
	Status     Status
}

// Store abstracts document storage over named collections
type Store interface {
	// FindFirst returns the first matching document, or nil when none match.
	FindFirst(ctx context.Context, uid string, filter Filter) (*Document, error)

	// FindMany returns all matching documents in ascending ID order.
	FindMany(ctx context.Context, uid string, filter Filter) ([]Document, error)

	// Create inserts a new document.
	Create(ctx context.Context, uid string, params CreateParams) (*Document, error)

	// Update merges params.Data into an existing document.
	// Returns ErrNotFound if the target doesn't exist.
	Update(ctx context.Context, uid string, params UpdateParams) (*Document, error)
}

// FieldsOf converts a tagged struct (or map) into Fields using its JSON
// encoding. Fields tagged `json:"-"` are dropped.
func FieldsOf(v interface{}) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Normalize round-trips fields through JSON so values compare the way a
// JSON document store would see them (numbers become float64, structs become maps).
func Normalize(f Fields) (Fields, error) {
	if f == nil {
		return Fields{}, nil
	}
	return FieldsOf(f)
}

// ValueEqual reports whether two field values have the same JSON encoding
func ValueEqual(a, b interface{}) bool {
	ra, err := json.Marshal(a)
	if err != nil {
		return false
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ra) == string(rb)
}

// Matches reports whether fields satisfy the filter
func (f Filter) Matches(fields Fields) bool {
	for k, want := range f {
		got, ok := fields[k]
		if !ok {
			return false
		}
		if !ValueEqual(got, want) {
			return false
		}
	}
	return true
}
