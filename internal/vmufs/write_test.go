package vmufs

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteNewFile(t *testing.T) {
	card := newCard(t)
	require.Equal(t, 3, fileCount(card))
	require.Equal(t, 28, allocatedBlocks(card))

	buf := pattern(18*BlockSize, 1)
	n, err := card.Write("SONIC2__S03", buf, 0)
	require.NoError(t, err)
	require.Equal(t, 18*BlockSize, n)

	require.Equal(t, 4, fileCount(card))
	require.Equal(t, 46, allocatedBlocks(card))

	// The descending allocator puts a fresh file at the top of the user
	// region.
	fi, err := card.Stat("SONIC2__S03")
	require.NoError(t, err)
	require.Equal(t, uint16(199), fi.StartingBlock)
	require.Equal(t, uint16(18), fi.Blocks)

	out := make([]byte, len(buf))
	_, err = card.Read("SONIC2__S03", out, 0)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestWriteFillsCard(t *testing.T) {
	card := newCard(t)

	// 172 user blocks are free; nine 18-block files fit, the tenth does not.
	buf := pattern(18*BlockSize, 2)
	for i := 0; i < 9; i++ {
		name := "SONIC2___S0" + string(rune('0'+i))
		_, err := card.Write(name, buf, 0)
		require.NoError(t, err, "file %d", i)
	}

	_, err := card.Write("SONIC2___S09", buf, 0)
	require.ErrorIs(t, err, ErrNoSpace)
}

func TestWriteOverwriteEqualSize(t *testing.T) {
	card := newCard(t)

	buf := pattern(18*BlockSize, 3)
	_, err := card.Write("FILE", buf, 0)
	require.NoError(t, err)
	_, err = card.Write("FILE", buf, 0)
	require.NoError(t, err)

	require.Equal(t, 4, fileCount(card))
	require.Equal(t, 46, allocatedBlocks(card))
}

func TestWriteOverwriteSmaller(t *testing.T) {
	card := newCard(t)

	_, err := card.Write("FILE", pattern(18*BlockSize, 4), 0)
	require.NoError(t, err)
	_, err = card.Write("FILE", pattern(7*BlockSize, 5), 0)
	require.NoError(t, err)

	// The file keeps its larger block count; no blocks leak.
	require.Equal(t, 4, fileCount(card))
	require.Equal(t, 46, allocatedBlocks(card))

	fi, err := card.Stat("FILE")
	require.NoError(t, err)
	require.Equal(t, uint16(18), fi.Blocks)
}

func TestWriteAtOffsetIntoExisting(t *testing.T) {
	card := newCard(t)

	base := pattern(3*BlockSize, 6)
	_, err := card.Write("SAVE", base, 0)
	require.NoError(t, err)

	patch := pattern(100, 7)
	n, err := card.Write("SAVE", patch, 700)
	require.NoError(t, err)
	require.Equal(t, 100, n)

	want := append([]byte{}, base...)
	copy(want[700:], patch)

	out := make([]byte, len(want))
	_, err = card.Read("SAVE", out, 0)
	require.NoError(t, err)
	require.Equal(t, want, out)
}

func TestWriteCrossBlockBoundary(t *testing.T) {
	card := newCard(t)

	_, err := card.Write("SAVE", pattern(2*BlockSize, 8), 0)
	require.NoError(t, err)

	// Spans the tail of block 0 and the head of block 1.
	patch := pattern(600, 9)
	_, err = card.Write("SAVE", patch, 200)
	require.NoError(t, err)

	out := make([]byte, 600)
	_, err = card.Read("SAVE", out, 200)
	require.NoError(t, err)
	require.Equal(t, patch, out)
}

func TestWriteExtendsFile(t *testing.T) {
	card := newCard(t)

	_, err := card.Write("SAVE", pattern(BlockSize, 10), 0)
	require.NoError(t, err)

	tail := pattern(BlockSize, 11)
	_, err = card.Write("SAVE", tail, BlockSize)
	require.NoError(t, err)

	fi, err := card.Stat("SAVE")
	require.NoError(t, err)
	require.Equal(t, uint16(2), fi.Blocks)

	out := make([]byte, BlockSize)
	_, err = card.Read("SAVE", out, BlockSize)
	require.NoError(t, err)
	require.Equal(t, tail, out)
}

func TestWriteSparseOffsetExtension(t *testing.T) {
	card := newCard(t)

	_, err := card.Write("SAVE", pattern(BlockSize, 12), 0)
	require.NoError(t, err)

	// Writing two blocks past the current end forces the chain to grow
	// through blocks that are never explicitly written.
	_, err = card.Write("SAVE", pattern(BlockSize, 13), 3*BlockSize)
	require.NoError(t, err)

	fi, err := card.Stat("SAVE")
	require.NoError(t, err)
	require.Equal(t, uint16(4), fi.Blocks)
}

func TestWriteNewFileAtOffsetFails(t *testing.T) {
	card := newCard(t)

	_, err := card.Write("FRESH", pattern(BlockSize, 14), BlockSize)
	require.ErrorIs(t, err, ErrExists)
}

func TestWriteEmptyNewFile(t *testing.T) {
	card := newCard(t)

	n, err := card.Write("EMPTY", nil, 0)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	fi, err := card.Stat("EMPTY")
	require.NoError(t, err)
	require.Equal(t, uint16(0), fi.Blocks)
	require.Equal(t, FATChainEnd, fi.StartingBlock)
	require.Equal(t, 28, allocatedBlocks(card))
}

func TestWriteNameTooLong(t *testing.T) {
	card := newCard(t)

	_, err := card.Write("THIRTEEN_BYTE", pattern(BlockSize, 15), 0)
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestRemoveAfterWriteRestoresBaseline(t *testing.T) {
	card := newCard(t)
	baseline := allocatedBlocks(card)

	_, err := card.Write("SONIC2__S03", pattern(18*BlockSize, 16), 0)
	require.NoError(t, err)
	require.NoError(t, card.Remove("SONIC2__S03"))

	require.Equal(t, baseline, allocatedBlocks(card))
	require.Equal(t, 3, fileCount(card))
}

func TestCreate(t *testing.T) {
	card := newCard(t)

	require.NoError(t, card.Create("/NEWFILE"))

	fi, err := card.Stat("NEWFILE")
	require.NoError(t, err)
	require.Equal(t, uint16(0), fi.Blocks)
	require.Equal(t, TypeData, fi.Type)

	require.ErrorIs(t, card.Create("NEWFILE"), ErrExists)
	require.ErrorIs(t, card.Create("THIRTEEN_BYTE"), ErrNameTooLong)
}

func TestCreateDirectoryFull(t *testing.T) {
	fs := Format(time.Now())

	for i := 0; i < TotalDirEntries; i++ {
		require.NoError(t, fs.Create(fmt.Sprintf("F%03d", i)))
	}

	require.ErrorIs(t, fs.Create("ONEMORE"), ErrNoSpace)
}
