package upload

import (
	"errors"
	"fmt"
	"sync"

	"github.com/supplier-portal/backend/internal/models"
)

// SlotCount is the number of attachment positions per session.
const SlotCount = 8

// ErrUnknownSlot is returned for slot ids outside upload-1..upload-8.
var ErrUnknownSlot = errors.New("unknown upload slot")

// SlotID returns the id of the slot at zero-based position i.
func SlotID(i int) string {
	return fmt.Sprintf("upload-%d", i+1)
}

// Registry is the fixed-capacity set of upload slots of one session.
type Registry struct {
	mu    sync.RWMutex
	slots [SlotCount]models.UploadSlot
}

// NewRegistry creates a registry with every slot empty.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.slots {
		r.slots[i] = models.UploadSlot{ID: SlotID(i), Status: models.SlotStatusEmpty}
	}
	return r
}

func (r *Registry) index(slotID string) (int, error) {
	for i := range r.slots {
		if r.slots[i].ID == slotID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
}

// Assign places file into the slot, replacing whatever it held. A nil file
// clears the slot; a file failing IsAcceptable leaves the slot INVALID with no
// file. The previously held file, if any, is returned so its content can be
// released.
func (r *Registry) Assign(slotID string, file *models.StagedFile) (models.UploadSlot, *models.StagedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.index(slotID)
	if err != nil {
		return models.UploadSlot{}, nil, err
	}

	replaced := r.slots[i].File
	switch {
	case file == nil:
		r.slots[i].File = nil
		r.slots[i].Status = models.SlotStatusEmpty
	case !IsAcceptable(file.Name):
		r.slots[i].File = nil
		r.slots[i].Status = models.SlotStatusInvalid
	default:
		f := *file
		r.slots[i].File = &f
		r.slots[i].Status = models.SlotStatusValid
	}

	return copySlot(r.slots[i]), replaced, nil
}

// Remove clears the slot regardless of its prior status.
func (r *Registry) Remove(slotID string) (models.UploadSlot, *models.StagedFile, error) {
	return r.Assign(slotID, nil)
}

// Get returns a copy of one slot.
func (r *Registry) Get(slotID string) (models.UploadSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, err := r.index(slotID)
	if err != nil {
		return models.UploadSlot{}, err
	}
	return copySlot(r.slots[i]), nil
}

// ValidFiles returns, in slot order, the files of every VALID slot.
func (r *Registry) ValidFiles() []models.StagedFile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]models.StagedFile, 0, SlotCount)
	for _, s := range r.slots {
		if s.Status == models.SlotStatusValid && s.File != nil {
			files = append(files, *s.File)
		}
	}
	return files
}

// Slots returns a copy of all slots in order.
func (r *Registry) Slots() []models.UploadSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.UploadSlot, SlotCount)
	for i, s := range r.slots {
		out[i] = copySlot(s)
	}
	return out
}

// Reset returns every slot to EMPTY and hands back the files that were held.
func (r *Registry) Reset() []models.StagedFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dropped []models.StagedFile
	for i := range r.slots {
		if r.slots[i].File != nil {
			dropped = append(dropped, *r.slots[i].File)
		}
		r.slots[i].File = nil
		r.slots[i].Status = models.SlotStatusEmpty
	}
	return dropped
}

func copySlot(s models.UploadSlot) models.UploadSlot {
	if s.File != nil {
		f := *s.File
		s.File = &f
	}
	return s
}
