package vmufs

import (
	"testing"
	"time"
)

// newCard builds the canonical test cartridge: a freshly formatted card with
// three pre-existing saves packed at the bottom of the user region, the same
// shape as the vmu_b.bin fixture the original driver was developed against.
// Note the two entries sharing a name: retail cards really do that when a
// game ships a save plus its minigame under one title.
func newCard(t *testing.T) *FS {
	t.Helper()

	fs := Format(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	addFile(t, fs, "EVO_DATA.001", 0, 8)
	addFile(t, fs, "SONICADV_INT", 8, 10)
	addFile(t, fs, "SONICADV_INT", 18, 10)
	return fs
}

// addFile hand-places a file with an ascending chain at a fixed location,
// bypassing the allocator so the fixture layout is deterministic.
func addFile(t *testing.T, fs *FS, name string, start, blocks int) {
	t.Helper()

	slot := fs.findFreeSlot()
	if slot < 0 {
		t.Fatalf("no free directory slot for %q", name)
	}

	e := &fs.entries[slot]
	*e = DirEntry{
		Type:          TypeData,
		StartingBlock: uint16(start),
		Timestamp:     NewTimestamp(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)),
		SizeInBlocks:  uint16(blocks),
	}
	e.setName(name)

	for b := start; b < start+blocks-1; b++ {
		fs.setNext(uint16(b), uint16(b+1))
	}
	fs.markChainEnd(uint16(start + blocks - 1))

	for i := 0; i < blocks*BlockSize; i++ {
		fs.img[start*BlockSize+i] = byte(i)
	}
}

func fileCount(fs *FS) int {
	n := 0
	for i := range fs.entries {
		if !fs.entries[i].free {
			n++
		}
	}
	return n
}

// allocatedBlocks counts user-region FAT cells not marked free.
func allocatedBlocks(fs *FS) int {
	n := 0
	for b := 0; b < int(fs.root.UserBlockCount); b++ {
		if fs.nextBlock(uint16(b)) != FATUnallocated {
			n++
		}
	}
	return n
}

// pattern fills a buffer with a position-dependent byte sequence so that
// misplaced blocks show up as data mismatches.
func pattern(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i)*3 + seed
	}
	return buf
}
