package models

// SlotStatus represents the state of an upload slot.
type SlotStatus string

const (
	SlotStatusEmpty   SlotStatus = "EMPTY"
	SlotStatusValid   SlotStatus = "VALID"
	SlotStatusInvalid SlotStatus = "INVALID"
)

// StagedFile is a file attached to a slot but not yet submitted.
// Handle identifies the stored content; it is empty for files that were
// rejected before being stored.
type StagedFile struct {
	Name   string `json:"name" msgpack:"name"`
	Size   int64  `json:"size" msgpack:"size"`
	Handle string `json:"-" msgpack:"-"`
}

// UploadSlot is one of the fixed attachment positions of a portal session.
type UploadSlot struct {
	ID     string      `json:"id" msgpack:"id"`
	File   *StagedFile `json:"file,omitempty" msgpack:"file,omitempty"`
	Status SlotStatus  `json:"status" msgpack:"status"`
}
