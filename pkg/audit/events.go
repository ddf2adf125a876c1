package audit

import (
	"fmt"
	"strconv"
)

// PermissionGrantEvent is logged for every permission created for a role
type PermissionGrantEvent struct {
	RoleType string
	RoleID   int64
	Action   string
}

func (e PermissionGrantEvent) MessageID() string {
	return "permission-grant"
}

func (e PermissionGrantEvent) Message() string {
	return fmt.Sprintf("granted %s to role %s", e.Action, e.RoleType)
}

func (e PermissionGrantEvent) Severity() Severity {
	return SeverityInfo
}

func (e PermissionGrantEvent) Facility() int {
	return FacilityLocal0
}

func (e PermissionGrantEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"role": e.RoleType,
			"id":   strconv.FormatInt(e.RoleID, 10),
		},
		SDIDAction: {
			"operation":  "grant",
			"permission": e.Action,
		},
	}
}

// SeedEvent is logged when an empty collection or missing singleton is
// populated with its default records
type SeedEvent struct {
	Collection string
	Count      int
}

func (e SeedEvent) MessageID() string {
	return "seed"
}

func (e SeedEvent) Message() string {
	return fmt.Sprintf("seeded %d document(s) into %s", e.Count, e.Collection)
}

func (e SeedEvent) Severity() Severity {
	return SeverityInfo
}

func (e SeedEvent) Facility() int {
	return FacilityLocal0
}

func (e SeedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSeed: {
			"collection": e.Collection,
			"count":      strconv.Itoa(e.Count),
		},
		SDIDAction: {
			"operation": "create",
		},
	}
}

// SeedPatchEvent is logged when an existing document is corrected, e.g.
// the about page receiving its featured puppies
type SeedPatchEvent struct {
	Collection string
	DocumentID string
	Field      string
	Count      int
}

func (e SeedPatchEvent) MessageID() string {
	return "seed-patch"
}

func (e SeedPatchEvent) Message() string {
	return fmt.Sprintf("set %s on %s %s (%d reference(s))", e.Field, e.Collection, e.DocumentID, e.Count)
}

func (e SeedPatchEvent) Severity() Severity {
	return SeverityInfo
}

func (e SeedPatchEvent) Facility() int {
	return FacilityLocal0
}

func (e SeedPatchEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSeed: {
			"collection": e.Collection,
			"document":   e.DocumentID,
			"field":      e.Field,
			"count":      strconv.Itoa(e.Count),
		},
		SDIDAction: {
			"operation": "update",
		},
	}
}

// SeedSkipEvent is logged when a provisioning step can't run, e.g. the
// public role doesn't exist yet
type SeedSkipEvent struct {
	Step   string
	Reason string
}

func (e SeedSkipEvent) MessageID() string {
	return "seed-skip"
}

func (e SeedSkipEvent) Message() string {
	return fmt.Sprintf("skipped %s: %s", e.Step, e.Reason)
}

func (e SeedSkipEvent) Severity() Severity {
	return SeverityWarning
}

func (e SeedSkipEvent) Facility() int {
	return FacilityLocal0
}

func (e SeedSkipEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSeed: {
			"step": e.Step,
		},
		SDIDAction: {
			"operation": "skip",
			"reason":    e.Reason,
		},
	}
}
