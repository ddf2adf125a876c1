package document

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ref points at a document in another collection. Either half may be set;
// stores resolve the other half when the relation is written.
type Ref struct {
	ID         int64  `json:"id,omitempty"`
	DocumentID string `json:"documentId,omitempty"`
}

func (r Ref) String() string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	return strconv.FormatInt(r.ID, 10)
}

// Relation is the assignment form for relation fields: {"set": [...]}
type Relation struct {
	Set []Ref `json:"set"`
}

// ParseRefs accepts every supported relation assignment form and returns
// the references it contains:
//
//   - Relation, *Relation, []Ref
//   - {"set": [...]} and [...] as decoded JSON
//   - list elements given as {"id": n}, {"documentId": "..."}, a bare
//     number (raw ID) or a bare string (document ID)
//
// A nil value yields no references.
func ParseRefs(value interface{}) ([]Ref, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Relation:
		return v.Set, nil
	case *Relation:
		if v == nil {
			return nil, nil
		}
		return v.Set, nil
	case []Ref:
		return v, nil
	case map[string]interface{}:
		set, ok := v["set"]
		if !ok {
			return nil, fmt.Errorf("relation object has no \"set\" key")
		}
		return ParseRefs(set)
	case Fields:
		return ParseRefs(map[string]interface{}(v))
	case []interface{}:
		refs := make([]Ref, 0, len(v))
		for _, item := range v {
			ref, err := parseRef(item)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unsupported relation value of type %T", value)
	}
}

func parseRef(item interface{}) (Ref, error) {
	switch v := item.(type) {
	case Ref:
		return v, nil
	case string:
		return Ref{DocumentID: v}, nil
	case float64:
		return Ref{ID: int64(v)}, nil
	case int:
		return Ref{ID: int64(v)}, nil
	case int64:
		return Ref{ID: v}, nil
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return Ref{}, fmt.Errorf("invalid relation id %q: %w", v, err)
		}
		return Ref{ID: id}, nil
	case map[string]interface{}:
		var ref Ref
		if docID, ok := v["documentId"].(string); ok {
			ref.DocumentID = docID
		}
		if id, ok := v["id"]; ok {
			idRef, err := parseRef(id)
			if err != nil {
				return Ref{}, err
			}
			ref.ID = idRef.ID
		}
		if ref.ID == 0 && ref.DocumentID == "" {
			return Ref{}, fmt.Errorf("relation item has neither id nor documentId")
		}
		return ref, nil
	default:
		return Ref{}, fmt.Errorf("unsupported relation item of type %T", item)
	}
}

// Resolver looks up a single document by reference. Stores implement it
// against their own storage, usually while holding a lock or transaction.
type Resolver func(ctx context.Context, uid string, ref Ref) (*Document, error)

// ResolveRelations rewrites every relation field of data (per the content
// type's schema) into a []Ref with both halves filled. Fields that aren't
// present are left alone.
func ResolveRelations(ctx context.Context, ct ContentType, data Fields, resolve Resolver) error {
	for field, target := range ct.Relations {
		value, ok := data[field]
		if !ok {
			continue
		}
		refs, err := ParseRefs(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		resolved := make([]Ref, 0, len(refs))
		for _, ref := range refs {
			doc, err := resolve(ctx, target, ref)
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("field %q -> %s %s: %w", field, target, ref, ErrRelationTarget)
			}
			resolved = append(resolved, Ref{ID: doc.ID, DocumentID: doc.DocumentID})
		}
		data[field] = resolved
	}
	return nil
}

// DecodeRelations converts relation fields read back from storage
// (decoded JSON) into []Ref.
func DecodeRelations(ct ContentType, data Fields) {
	for field := range ct.Relations {
		value, ok := data[field]
		if !ok || value == nil {
			continue
		}
		if refs, err := ParseRefs(value); err == nil {
			data[field] = refs
		}
	}
}
