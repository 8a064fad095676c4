package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplier-portal/backend/internal/models"
)

func staged(name, handle string) *models.StagedFile {
	return &models.StagedFile{Name: name, Size: 10, Handle: handle}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	slots := r.Slots()

	require.Len(t, slots, SlotCount)
	for i, s := range slots {
		assert.Equal(t, SlotID(i), s.ID)
		assert.Equal(t, models.SlotStatusEmpty, s.Status)
		assert.Nil(t, s.File)
	}
	assert.Equal(t, "upload-1", slots[0].ID)
	assert.Equal(t, "upload-8", slots[7].ID)
	assert.Empty(t, r.ValidFiles())
}

func TestRegistry_Assign(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		r := NewRegistry()
		slot, replaced, err := r.Assign("upload-1", staged("cert.pdf", "h1"))
		require.NoError(t, err)
		assert.Nil(t, replaced)
		assert.Equal(t, models.SlotStatusValid, slot.Status)
		require.NotNil(t, slot.File)
		assert.Equal(t, "cert.pdf", slot.File.Name)
	})

	t.Run("invalid file is flagged and not retained", func(t *testing.T) {
		r := NewRegistry()
		slot, _, err := r.Assign("upload-2", staged("virus.exe", ""))
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusInvalid, slot.Status)
		assert.Nil(t, slot.File)
		assert.Empty(t, r.ValidFiles())
	})

	t.Run("nil file clears slot", func(t *testing.T) {
		r := NewRegistry()
		_, _, err := r.Assign("upload-3", staged("a.png", "h3"))
		require.NoError(t, err)

		slot, replaced, err := r.Assign("upload-3", nil)
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusEmpty, slot.Status)
		assert.Nil(t, slot.File)
		require.NotNil(t, replaced)
		assert.Equal(t, "h3", replaced.Handle)
	})

	t.Run("valid slot reassigned with invalid file drops prior file", func(t *testing.T) {
		r := NewRegistry()
		_, _, err := r.Assign("upload-1", staged("ok.pdf", "h1"))
		require.NoError(t, err)

		slot, replaced, err := r.Assign("upload-1", staged("bad.exe", ""))
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusInvalid, slot.Status)
		assert.Nil(t, slot.File)
		require.NotNil(t, replaced)
		assert.Equal(t, "ok.pdf", replaced.Name)
		assert.Empty(t, r.ValidFiles())
	})

	t.Run("invalid slot reassigned with valid file", func(t *testing.T) {
		r := NewRegistry()
		_, _, _ = r.Assign("upload-1", staged("bad.exe", ""))
		slot, replaced, err := r.Assign("upload-1", staged("good.csv", "h2"))
		require.NoError(t, err)
		assert.Nil(t, replaced)
		assert.Equal(t, models.SlotStatusValid, slot.Status)
	})

	t.Run("reassign replaces without merge", func(t *testing.T) {
		r := NewRegistry()
		_, _, _ = r.Assign("upload-1", staged("first.pdf", "h1"))
		_, replaced, err := r.Assign("upload-1", staged("second.pdf", "h2"))
		require.NoError(t, err)
		require.NotNil(t, replaced)
		assert.Equal(t, "first.pdf", replaced.Name)

		files := r.ValidFiles()
		require.Len(t, files, 1)
		assert.Equal(t, "second.pdf", files[0].Name)
	})

	t.Run("unknown slot", func(t *testing.T) {
		r := NewRegistry()
		_, _, err := r.Assign("upload-9", staged("a.pdf", "h"))
		assert.ErrorIs(t, err, ErrUnknownSlot)
	})
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	_, _, _ = r.Assign("upload-4", staged("bad.exe", ""))

	slot, replaced, err := r.Remove("upload-4")
	require.NoError(t, err)
	assert.Nil(t, replaced)
	assert.Equal(t, models.SlotStatusEmpty, slot.Status)
}

func TestRegistry_ValidFilesOrder(t *testing.T) {
	r := NewRegistry()
	_, _, _ = r.Assign("upload-5", staged("e.pdf", "h5"))
	_, _, _ = r.Assign("upload-2", staged("b.pdf", "h2"))
	_, _, _ = r.Assign("upload-3", staged("c.exe", ""))
	_, _, _ = r.Assign("upload-8", staged("h.png", "h8"))

	files := r.ValidFiles()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"b.pdf", "e.pdf", "h.png"}, names)
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	_, _, _ = r.Assign("upload-1", staged("a.pdf", "h1"))
	_, _, _ = r.Assign("upload-2", staged("b.exe", ""))
	_, _, _ = r.Assign("upload-3", staged("c.pdf", "h3"))

	dropped := r.Reset()
	assert.Len(t, dropped, 2)
	for _, s := range r.Slots() {
		assert.Equal(t, models.SlotStatusEmpty, s.Status)
		assert.Nil(t, s.File)
	}
}

func TestRegistry_SlotsAreCopies(t *testing.T) {
	r := NewRegistry()
	_, _, _ = r.Assign("upload-1", staged("a.pdf", "h1"))

	slots := r.Slots()
	slots[0].File.Name = "mutated.pdf"

	got, err := r.Get("upload-1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.File.Name)
}
