package vmufs

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadFSRejectsWrongSize(t *testing.T) {
	_, err := ReadFS(make([]byte, ImageSize-1))
	require.ErrorIs(t, err, ErrBadImage)

	_, err = ReadFS(make([]byte, ImageSize+1))
	require.ErrorIs(t, err, ErrBadImage)

	_, err = ReadFS(nil)
	require.ErrorIs(t, err, ErrBadImage)
}

func TestFormatProducesCleanCard(t *testing.T) {
	fs := Format(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))

	root := fs.Root()
	require.Equal(t, uint16(254), root.FATLocation)
	require.Equal(t, uint16(1), root.FATSize)
	require.Equal(t, uint16(253), root.DirectoryLocation)
	require.Equal(t, uint16(DirBlocks), root.DirectorySize)
	require.Equal(t, uint16(200), root.UserBlockCount)
	require.False(t, root.CustomColor())

	require.Empty(t, fs.ReadDir())
	require.Equal(t, 0, allocatedBlocks(fs))
	require.NoError(t, fs.Check())
}

func TestParseSerializedCard(t *testing.T) {
	card := newCard(t)
	card.Serialize()

	img := bytes.Clone(card.Image())
	fs, err := ReadFS(img)
	require.NoError(t, err)

	infos := fs.ReadDir()
	require.Len(t, infos, 3)

	evo, err := fs.Stat("EVO_DATA.001")
	require.NoError(t, err)
	require.Equal(t, uint16(8), evo.Blocks)
	require.Equal(t, int64(8*BlockSize), evo.Size)
	require.Equal(t, uint16(0), evo.StartingBlock)
	require.Equal(t, TypeData, evo.Type)
	require.False(t, evo.CopyProtected)
	require.Equal(t,
		time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		evo.ModTime)

	sonic, err := fs.Stat("SONICADV_INT")
	require.NoError(t, err)
	require.Equal(t, uint16(10), sonic.Blocks)
}

func TestSerializeRoundTrip(t *testing.T) {
	card := newCard(t)
	card.Serialize()
	want := bytes.Clone(card.Image())

	fs, err := ReadFS(bytes.Clone(want))
	require.NoError(t, err)
	fs.Serialize()

	require.True(t, bytes.Equal(want, fs.Image()),
		"deserialize followed by serialize must not change the image")
}

func TestGarbageDirEntriesParseAsFree(t *testing.T) {
	card := newCard(t)
	card.Serialize()
	img := bytes.Clone(card.Image())

	// Corrupt the file-type byte of the first populated slot and the
	// copy-protection byte of the second. Both slots must parse as free.
	slots := 0
	for i := 0; i < TotalDirEntries && slots < 2; i++ {
		if card.entries[i].free {
			continue
		}
		off := dirEntryOffset(card.root.DirectoryLocation, i)
		if slots == 0 {
			img[off+entOffType] = 0x77
		} else {
			img[off+entOffProtect] = 0x55
		}
		slots++
	}
	require.Equal(t, 2, slots)

	fs, err := ReadFS(img)
	require.NoError(t, err)
	require.Len(t, fs.ReadDir(), 1)
}

func TestStatPathHandling(t *testing.T) {
	card := newCard(t)

	// One leading slash is stripped.
	fi, err := card.Stat("/EVO_DATA.001")
	require.NoError(t, err)
	require.Equal(t, "EVO_DATA.001", fi.Name)

	_, err = card.Stat("NOPE")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = card.Stat("THIRTEEN_BYTE")
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestLookupPrefersHighestSlot(t *testing.T) {
	card := newCard(t)

	// Both SONICADV_INT entries resolve to the first one added, which sits
	// in the highest slot, matching the backward on-image scan order.
	slot := card.lookup("SONICADV_INT")
	require.Equal(t, TotalDirEntries-2, slot)
	require.Equal(t, uint16(8), card.entries[slot].StartingBlock)
}
