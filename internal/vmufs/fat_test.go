package vmufs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFATCellAccess(t *testing.T) {
	fs := Format(time.Now())

	fs.setNext(5, 7)
	require.Equal(t, uint16(7), fs.nextBlock(5))

	// Cells are 16-bit little-endian, indexed by block number.
	base := fs.fatBase()
	require.Equal(t, byte(7), fs.img[base+10])
	require.Equal(t, byte(0), fs.img[base+11])

	fs.markChainEnd(5)
	require.Equal(t, FATChainEnd, fs.nextBlock(5))

	fs.markFree(5)
	require.Equal(t, FATUnallocated, fs.nextBlock(5))
}

func TestFindFreeBelowScansDownward(t *testing.T) {
	fs := Format(time.Now())

	b, ok := fs.findFreeBelow(int(fs.root.UserBlockCount) - 1)
	require.True(t, ok)
	require.Equal(t, uint16(199), b)

	fs.markChainEnd(199)
	fs.markChainEnd(198)

	b, ok = fs.findFreeBelow(int(fs.root.UserBlockCount) - 1)
	require.True(t, ok)
	require.Equal(t, uint16(197), b)

	// Seeding below an allocated block skips it.
	b, ok = fs.findFreeBelow(100)
	require.True(t, ok)
	require.Equal(t, uint16(100), b)
}

func TestFindFreeBelowExhausted(t *testing.T) {
	fs := Format(time.Now())

	for b := 0; b < int(fs.root.UserBlockCount); b++ {
		fs.markChainEnd(uint16(b))
	}

	_, ok := fs.findFreeBelow(int(fs.root.UserBlockCount) - 1)
	require.False(t, ok)

	_, ok = fs.findFreeBelow(-1)
	require.False(t, ok)
}

func TestSystemAreaChains(t *testing.T) {
	fs := Format(time.Now())

	// FAT and root block are single-block chains; the directory chains
	// downward from its base block.
	require.Equal(t, FATChainEnd, fs.nextBlock(RootBlockIndex))
	require.Equal(t, FATChainEnd, fs.nextBlock(fs.root.FATLocation))

	cur := fs.root.DirectoryLocation
	for i := 0; i < DirBlocks-1; i++ {
		require.Equal(t, cur-1, fs.nextBlock(cur))
		cur--
	}
	require.Equal(t, FATChainEnd, fs.nextBlock(cur))
}
