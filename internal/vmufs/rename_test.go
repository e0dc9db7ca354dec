package vmufs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRename(t *testing.T) {
	card := newCard(t)

	require.NoError(t, card.Rename("/EVO_DATA.001", "/EVO_DATA.002"))

	_, err := card.Stat("EVO_DATA.001")
	require.ErrorIs(t, err, ErrNotFound)

	fi, err := card.Stat("EVO_DATA.002")
	require.NoError(t, err)
	require.Equal(t, uint16(8), fi.Blocks)
	require.Equal(t, uint16(0), fi.StartingBlock)
}

func TestRenameToExisting(t *testing.T) {
	card := newCard(t)

	require.ErrorIs(t, card.Rename("EVO_DATA.001", "SONICADV_INT"), ErrExists)
}

func TestRenameMissing(t *testing.T) {
	card := newCard(t)

	require.ErrorIs(t, card.Rename("NOPE", "STILL_NOPE"), ErrNotFound)
}

func TestRenameSameName(t *testing.T) {
	card := newCard(t)

	require.NoError(t, card.Rename("EVO_DATA.001", "EVO_DATA.001"))

	_, err := card.Stat("EVO_DATA.001")
	require.NoError(t, err)
}

func TestRenameTooLong(t *testing.T) {
	card := newCard(t)

	require.ErrorIs(t, card.Rename("EVO_DATA.001", "THIRTEEN_BYTE"), ErrNameTooLong)
}

func TestRemove(t *testing.T) {
	card := newCard(t)

	require.NoError(t, card.Remove("/SONICADV_INT"))

	// The highest-slot entry is the one removed; its twin survives.
	require.Equal(t, 2, fileCount(card))
	require.Equal(t, 18, allocatedBlocks(card))

	fi, err := card.Stat("SONICADV_INT")
	require.NoError(t, err)
	require.Equal(t, uint16(18), fi.StartingBlock)

	// The removed chain's cells are free again.
	for b := uint16(8); b < 18; b++ {
		require.Equal(t, FATUnallocated, card.nextBlock(b))
	}
}

func TestRemoveEmptyFile(t *testing.T) {
	card := newCard(t)
	require.NoError(t, card.Create("EMPTY"))

	before := allocatedBlocks(card)
	require.NoError(t, card.Remove("EMPTY"))
	require.Equal(t, before, allocatedBlocks(card))
}

func TestRemoveMissing(t *testing.T) {
	card := newCard(t)

	require.ErrorIs(t, card.Remove("NOPE"), ErrNotFound)
	require.ErrorIs(t, card.Remove("THIRTEEN_BYTE"), ErrNameTooLong)
}

func TestRemoveSurvivesSerializeRoundTrip(t *testing.T) {
	card := newCard(t)
	require.NoError(t, card.Remove("EVO_DATA.001"))
	card.Serialize()

	fs, err := ReadFS(card.Image())
	require.NoError(t, err)
	require.Len(t, fs.ReadDir(), 2)

	_, err = fs.Stat("EVO_DATA.001")
	require.ErrorIs(t, err, ErrNotFound)
}
