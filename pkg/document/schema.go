package document

import (
	"fmt"
	"sort"
)

// Kind distinguishes collection types (many documents) from single types
// (at most one logical document).
type Kind string

const (
	KindCollection Kind = "collectionType"
	KindSingle     Kind = "singleType"
)

// ContentType describes one collection
type ContentType struct {
	UID  string
	Kind Kind
	// Relations maps a relation field to the UID of its target collection
	Relations map[string]string
	// RichText lists markdown fields
	RichText []string
}

// Schema is the set of known content types keyed by UID
type Schema map[string]ContentType

// NewSchema builds a schema from content types
func NewSchema(types ...ContentType) Schema {
	s := make(Schema, len(types))
	for _, ct := range types {
		s[ct.UID] = ct
	}
	return s
}

// Lookup returns the content type for uid or ErrUnknownCollection
func (s Schema) Lookup(uid string) (ContentType, error) {
	ct, ok := s[uid]
	if !ok {
		return ContentType{}, fmt.Errorf("%w: %s", ErrUnknownCollection, uid)
	}
	return ct, nil
}

// UIDs returns all content type UIDs in sorted order
func (s Schema) UIDs() []string {
	uids := make([]string, 0, len(s))
	for uid := range s {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}
