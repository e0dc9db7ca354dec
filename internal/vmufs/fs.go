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

// Package vmufs implements the on-image filesystem engine for Dreamcast VMU
// memory cards: a flat, FAT-style filesystem inside a 128 KiB image. The
// engine parses a raw image into an in-memory mirror, resolves logical file
// offsets to physical block chains, and applies file operations while keeping
// the FAT, the directory table and the per-file metadata mutually consistent.
//
// The engine is single-threaded and synchronous; callers that serve it from
// multiple goroutines must hold one exclusive lock across every operation.
package vmufs

import (
	"time"
)

// RootBlock is the parsed volume metadata from block 255. It is read-only
// after parse; Serialize writes the same values back through.
type RootBlock struct {
	colorFlag byte

	Blue  byte
	Red   byte
	Green byte
	Alpha byte

	Timestamp Timestamp

	FATLocation       uint16
	FATSize           uint16
	DirectoryLocation uint16
	DirectorySize     uint16
	IconShape         uint16
	UserBlockCount    uint16
}

// CustomColor reports whether the card carries a user-picked VMS color.
func (r *RootBlock) CustomColor() bool {
	return r.colorFlag != 0
}

// FS is the in-memory mirror of one VMU image: the parsed root block, the
// 208-slot directory table, and the backing image buffer. User data and FAT
// cells are mutated in place in the buffer; the directory table and root
// block are re-emitted into the buffer by Serialize.
type FS struct {
	root    RootBlock
	entries [TotalDirEntries]DirEntry
	img     []byte
}

// ReadFS parses a raw VMU image into a fresh mirror. The blob must be exactly
// ImageSize bytes; the FS keeps a reference to it and mutates it in place.
func ReadFS(img []byte) (*FS, error) {
	if len(img) != ImageSize {
		return nil, ErrBadImage
	}

	fs := &FS{img: img}

	base := RootBlockIndex * BlockSize
	fs.root = RootBlock{
		colorFlag:         img[base+rootOffColorFlag],
		Blue:              img[base+rootOffBlue],
		Red:               img[base+rootOffRed],
		Green:             img[base+rootOffGreen],
		Alpha:             img[base+rootOffAlpha],
		Timestamp:         decodeTimestamp(img[base+rootOffTimestamp:]),
		FATLocation:       readU16(img, base+rootOffFATLoc),
		FATSize:           readU16(img, base+rootOffFATSize),
		DirectoryLocation: readU16(img, base+rootOffDirLoc),
		DirectorySize:     readU16(img, base+rootOffDirSize),
		IconShape:         readU16(img, base+rootOffIconShape),
		UserBlockCount:    readU16(img, base+rootOffUserCount),
	}

	for i := 0; i < TotalDirEntries; i++ {
		off := dirEntryOffset(fs.root.DirectoryLocation, i)
		e := &fs.entries[i]
		copy(e.raw[:], img[off:off+DirEntrySize])

		// Any file-type or copy-protection byte outside the known values
		// marks the slot free; its raw bytes are still kept for round-trip.
		switch img[off+entOffType] {
		case byte(TypeData):
			e.Type = TypeData
		case byte(TypeGame):
			e.Type = TypeGame
		default:
			e.free = true
			continue
		}

		switch img[off+entOffProtect] {
		case 0x00:
			e.CopyProtected = false
		case 0xFF:
			e.CopyProtected = true
		default:
			e.free = true
			continue
		}

		e.StartingBlock = readU16(img, off+entOffStart)
		copy(e.filename[:], img[off+entOffName:off+entOffName+MaxFilename])
		e.Timestamp = decodeTimestamp(img[off+entOffTimestamp:])
		e.SizeInBlocks = readU16(img, off+entOffBlocks)
		e.HeaderOffset = readU16(img, off+entOffHeader)
	}

	return fs, nil
}

// Serialize re-emits the parts of the image the mirror owns: the directory
// region and the root block. FAT cells and user data are already mutated in
// place, so after Serialize the backing buffer is the complete, persistable
// image.
func (fs *FS) Serialize() {
	img := fs.img

	base := RootBlockIndex * BlockSize
	img[base+rootOffColorFlag] = fs.root.colorFlag
	img[base+rootOffBlue] = fs.root.Blue
	img[base+rootOffRed] = fs.root.Red
	img[base+rootOffGreen] = fs.root.Green
	img[base+rootOffAlpha] = fs.root.Alpha
	fs.root.Timestamp.encode(img[base+rootOffTimestamp:])
	writeU16(img, base+rootOffFATLoc, fs.root.FATLocation)
	writeU16(img, base+rootOffFATSize, fs.root.FATSize)
	writeU16(img, base+rootOffDirLoc, fs.root.DirectoryLocation)
	writeU16(img, base+rootOffDirSize, fs.root.DirectorySize)
	writeU16(img, base+rootOffIconShape, fs.root.IconShape)
	writeU16(img, base+rootOffUserCount, fs.root.UserBlockCount)

	for i := 0; i < TotalDirEntries; i++ {
		off := dirEntryOffset(fs.root.DirectoryLocation, i)
		e := &fs.entries[i]

		if e.free {
			copy(img[off:off+DirEntrySize], e.raw[:])
			continue
		}

		img[off+entOffType] = byte(e.Type)
		if e.CopyProtected {
			img[off+entOffProtect] = 0xFF
		} else {
			img[off+entOffProtect] = 0x00
		}
		writeU16(img, off+entOffStart, e.StartingBlock)
		copy(img[off+entOffName:off+entOffName+MaxFilename], e.filename[:])
		e.Timestamp.encode(img[off+entOffTimestamp:])
		writeU16(img, off+entOffBlocks, e.SizeInBlocks)
		writeU16(img, off+entOffHeader, e.HeaderOffset)
		for j := entOffHeader + 2; j < DirEntrySize; j++ {
			img[off+j] = 0
		}
	}
}

// Image returns the backing image buffer. Call Serialize first if directory
// or root block state changed since the image was parsed.
func (fs *FS) Image() []byte {
	return fs.img
}

// Root returns the parsed root block.
func (fs *FS) Root() RootBlock {
	return fs.root
}

// Format builds a brand-new, empty, well-formed card: canonical root block,
// every user cell free, and the system area (directory blocks, FAT, root)
// chained the way retail cards ship.
func Format(now time.Time) *FS {
	img := make([]byte, ImageSize)

	base := RootBlockIndex * BlockSize
	// Retail cards mark a formatted root block with sixteen 0x55 bytes.
	for i := 0; i < 16; i++ {
		img[base+i] = 0x55
	}
	NewTimestamp(now).encode(img[base+rootOffTimestamp:])
	writeU16(img, base+rootOffFATLoc, defaultFATLocation)
	writeU16(img, base+rootOffFATSize, defaultFATSize)
	writeU16(img, base+rootOffDirLoc, defaultDirLocation)
	writeU16(img, base+rootOffDirSize, defaultDirSize)
	writeU16(img, base+rootOffUserCount, defaultUserBlockCount)

	fatBase := defaultFATLocation * BlockSize
	for b := 0; b < TotalBlocks; b++ {
		writeU16(img, fatBase+2*b, FATUnallocated)
	}
	writeU16(img, fatBase+2*RootBlockIndex, FATChainEnd)
	writeU16(img, fatBase+2*defaultFATLocation, FATChainEnd)

	// Directory blocks chain downward from the base block.
	for b := defaultDirLocation; b > defaultDirLocation-defaultDirSize+1; b-- {
		writeU16(img, fatBase+2*b, uint16(b-1))
	}
	writeU16(img, fatBase+2*(defaultDirLocation-defaultDirSize+1), FATChainEnd)

	fs, err := ReadFS(img)
	if err != nil {
		panic(err)
	}
	return fs
}

// FileInfo describes one file for directory listings and attribute queries.
type FileInfo struct {
	Name          string
	Type          FileType
	CopyProtected bool
	StartingBlock uint16
	Blocks        uint16
	Size          int64
	ModTime       time.Time
}

func fileInfo(e *DirEntry) FileInfo {
	return FileInfo{
		Name:          e.Name(),
		Type:          e.Type,
		CopyProtected: e.CopyProtected,
		StartingBlock: e.StartingBlock,
		Blocks:        e.SizeInBlocks,
		Size:          int64(e.SizeInBlocks) * BlockSize,
		ModTime:       e.Timestamp.Time(),
	}
}

// Stat resolves a path to its file attributes.
func (fs *FS) Stat(path string) (FileInfo, error) {
	name, err := trimPath(path)
	if err != nil {
		return FileInfo{}, err
	}

	slot := fs.lookup(name)
	if slot < 0 {
		return FileInfo{}, ErrNotFound
	}
	return fileInfo(&fs.entries[slot]), nil
}

// ReadDir lists every file on the card, highest slot first, matching the
// backward on-image directory layout.
func (fs *FS) ReadDir() []FileInfo {
	var infos []FileInfo
	for i := TotalDirEntries - 1; i >= 0; i-- {
		if !fs.entries[i].free {
			infos = append(infos, fileInfo(&fs.entries[i]))
		}
	}
	return infos
}
