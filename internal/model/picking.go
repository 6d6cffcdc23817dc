package model

import (
	"encoding/json"
	"strings"
)

// PickingStatus is the order-level picking milestone stored in the
// picking.status metafield. The zero value means the metafield is unset.
type PickingStatus string

const (
	PickingUnset      PickingStatus = ""
	PickingPending    PickingStatus = "pending"
	PickingInProgress PickingStatus = "in_progress"
	PickingDone       PickingStatus = "done"
)

func ParsePickingStatus(s string) (PickingStatus, bool) {
	switch st := PickingStatus(strings.TrimSpace(s)); st {
	case PickingPending, PickingInProgress, PickingDone:
		return st, true
	default:
		return PickingUnset, false
	}
}

// Writable reports whether s may be written to the metafield.
func (s PickingStatus) Writable() bool {
	return s == PickingPending || s == PickingInProgress || s == PickingDone
}

// Rank orders statuses for the worklist: pending, in progress, unset, done.
// Values outside the enum sort last.
func (s PickingStatus) Rank() int {
	switch s {
	case PickingPending:
		return 0
	case PickingInProgress:
		return 1
	case PickingUnset:
		return 2
	case PickingDone:
		return 3
	default:
		return 99
	}
}

// MarshalJSON renders the unset status as null.
func (s PickingStatus) MarshalJSON() ([]byte, error) {
	if s == PickingUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}
