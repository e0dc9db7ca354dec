// Copyright (c) 2025 the vmufuse authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package vmufs

import (
	"bytes"
	"strings"
)

// FileType tags a directory entry as save data or a minigame.
type FileType byte

const (
	TypeData FileType = 0x33
	TypeGame FileType = 0xCC
)

func (t FileType) String() string {
	switch t {
	case TypeData:
		return "DATA"
	case TypeGame:
		return "GAME"
	}
	return "UNKNOWN"
}

// DirEntry mirrors one 32-byte directory slot. A free slot keeps the raw
// bytes it was parsed with so that serializing an untouched image reproduces
// it exactly.
type DirEntry struct {
	free bool

	Type          FileType
	CopyProtected bool
	StartingBlock uint16
	Timestamp     Timestamp
	SizeInBlocks  uint16
	HeaderOffset  uint16

	filename [MaxFilename]byte
	raw      [DirEntrySize]byte
}

// Free reports whether the slot holds no file.
func (e *DirEntry) Free() bool {
	return e.free
}

// Name returns the filename up to the first NUL byte.
func (e *DirEntry) Name() string {
	if i := bytes.IndexByte(e.filename[:], 0); i >= 0 {
		return string(e.filename[:i])
	}
	return string(e.filename[:])
}

// setName stores name into the fixed 12-byte field, truncated and NUL-padded.
func (e *DirEntry) setName(name string) {
	e.filename = [MaxFilename]byte{}
	copy(e.filename[:], name)
}

// nameMatches compares name against the stored filename byte-wise, truncated
// to MaxFilename bytes. Case-sensitive.
func (e *DirEntry) nameMatches(name string) bool {
	return truncateName(name) == e.Name()
}

func truncateName(name string) string {
	if len(name) > MaxFilename {
		return name[:MaxFilename]
	}
	return name
}

// trimPath strips exactly one leading '/' and length-checks the remainder.
func trimPath(path string) (string, error) {
	name := strings.TrimPrefix(path, "/")
	if len(name) > MaxFilename {
		return "", ErrNameTooLong
	}
	return name, nil
}

// lookup scans slots from the highest index down, matching the backward
// on-image layout, and returns the first non-free slot whose filename matches.
// Returns -1 if no entry matches.
func (fs *FS) lookup(name string) int {
	for i := TotalDirEntries - 1; i >= 0; i-- {
		if !fs.entries[i].free && fs.entries[i].nameMatches(name) {
			return i
		}
	}
	return -1
}

// findFreeSlot returns the first free slot scanning from the highest index
// down, or -1 if the directory is full.
func (fs *FS) findFreeSlot() int {
	for i := TotalDirEntries - 1; i >= 0; i-- {
		if fs.entries[i].free {
			return i
		}
	}
	return -1
}

// clearSlot frees a slot and zeroes its backing bytes so the next serialize
// emits an empty entry.
func (fs *FS) clearSlot(i int) {
	fs.entries[i] = DirEntry{free: true}
}
