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

import "time"

// Create adds an empty DATA file. No FAT blocks are allocated; the entry's
// starting block is the end-of-chain sentinel until the first write.
func (fs *FS) Create(path string) error {
	name, err := trimPath(path)
	if err != nil {
		return err
	}

	if fs.lookup(name) >= 0 {
		return ErrExists
	}

	slot := fs.findFreeSlot()
	if slot < 0 {
		return ErrNoSpace
	}

	e := &fs.entries[slot]
	*e = DirEntry{
		Type:          TypeData,
		StartingBlock: FATChainEnd,
		Timestamp:     NewTimestamp(time.Now()),
	}
	e.setName(name)
	return nil
}

// Write copies buf into the named file starting at offset, allocating and
// splicing FAT blocks as needed. A file that does not exist yet is created,
// but only for offset 0. Returns the number of bytes written, which on
// success is exactly len(buf).
func (fs *FS) Write(path string, buf []byte, offset int64) (int, error) {
	name, err := trimPath(path)
	if err != nil {
		return 0, err
	}
	size := len(buf)

	slot := fs.lookup(name)
	isNew := slot < 0
	if isNew {
		slot = fs.findFreeSlot()
		if slot < 0 {
			return 0, ErrNoSpace
		}
		if offset != 0 {
			// Writing past the end of a file that does not exist.
			return 0, ErrExists
		}
	}

	e := &fs.entries[slot]
	chainLen := int(e.SizeInBlocks)

	// Allocation cursor: each fresh block is searched for strictly below the
	// previous one, keeping the chain packed downward from the top.
	alloc := int(fs.root.UserBlockCount) - 1

	if isNew {
		*e = DirEntry{
			Type:          TypeData,
			StartingBlock: FATChainEnd,
			Timestamp:     NewTimestamp(time.Now()),
		}
		e.setName(name)
		chainLen = 0

		if size == 0 {
			return 0, nil
		}

		b, ok := fs.findFreeBelow(alloc)
		if !ok {
			fs.clearSlot(slot)
			return 0, ErrNoSpace
		}
		e.StartingBlock = b
		fs.markChainEnd(b)
		alloc = int(b) - 1
		chainLen = 1
	}
	if size == 0 {
		return 0, nil
	}

	// Walk to the block containing offset, growing the chain if it ends
	// before the offset is reached.
	cur := e.StartingBlock
	prev := noBlock
	for i := int64(0); i <= offset/BlockSize; i++ {
		if cur == FATChainEnd {
			b, ok := fs.findFreeBelow(alloc)
			if !ok {
				e.SizeInBlocks = uint16(chainLen)
				return 0, ErrNoSpace
			}
			fs.splice(e, prev, b)
			fs.markChainEnd(b)
			alloc = int(b) - 1
			chainLen++
			cur = b
		}
		if !fs.validBlock(cur) {
			return 0, ErrInvalid
		}
		if i == offset/BlockSize {
			break
		}
		prev = cur
		cur = fs.nextBlock(cur)
	}

	written := 0
	blockOff := int(offset % BlockSize)
	for {
		n := size - written
		if n > BlockSize-blockOff {
			n = BlockSize - blockOff
		}
		dst := int(cur)*BlockSize + blockOff
		copy(fs.img[dst:dst+n], buf[written:written+n])
		written += n
		blockOff = 0

		if written == size {
			break
		}

		prev = cur
		cur = fs.nextBlock(cur)
		if cur == FATChainEnd {
			b, ok := fs.findFreeBelow(alloc)
			if !ok {
				e.SizeInBlocks = uint16(chainLen)
				return written, ErrNoSpace
			}
			fs.splice(e, prev, b)
			fs.markChainEnd(b)
			alloc = int(b) - 1
			chainLen++
			cur = b
		}
		if !fs.validBlock(cur) {
			return written, ErrInvalid
		}
	}

	// chainLen is now max(previous size, blocks needed by this write).
	if chainLen > int(e.SizeInBlocks) {
		e.SizeInBlocks = uint16(chainLen)
	}
	return written, nil
}

// splice links block b after prev, or makes it the chain head when there is
// no predecessor.
func (fs *FS) splice(e *DirEntry, prev, b uint16) {
	if prev == noBlock {
		e.StartingBlock = b
	} else {
		fs.setNext(prev, b)
	}
}
