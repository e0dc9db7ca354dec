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

// Truncate resizes the named file to newSize bytes, rounded up to whole
// blocks. Shrinking frees the tail of the chain; growing allocates one block
// at a time, descending from the top of the user region. Running out of free
// blocks during a grow is not an error: the file is grown to whatever fits
// and the size actually reached is returned.
func (fs *FS) Truncate(path string, newSize int64) (int64, error) {
	name, err := trimPath(path)
	if err != nil {
		return 0, err
	}

	slot := fs.lookup(name)
	if slot < 0 {
		return 0, ErrNotFound
	}
	e := &fs.entries[slot]

	target := int((newSize + BlockSize - 1) / BlockSize)
	if target > TotalBlocks {
		return 0, ErrNoSpace
	}

	current := int(e.SizeInBlocks)
	if target == current {
		return int64(target) * BlockSize, nil
	}

	if target < current {
		return fs.shrink(e, current, target)
	}
	return fs.grow(e, current, target)
}

func (fs *FS) shrink(e *DirEntry, current, target int) (int64, error) {
	cur := e.StartingBlock

	if target == 0 {
		for i := 0; i < current; i++ {
			if !fs.validBlock(cur) {
				return 0, ErrInvalid
			}
			next := fs.nextBlock(cur)
			fs.markFree(cur)
			cur = next
		}
		e.StartingBlock = FATChainEnd
		e.SizeInBlocks = 0
		return 0, nil
	}

	// Walk to the new tail, cut the chain there, then free the remainder.
	for i := 0; i < target-1; i++ {
		if !fs.validBlock(cur) {
			return 0, ErrInvalid
		}
		cur = fs.nextBlock(cur)
	}
	if !fs.validBlock(cur) {
		return 0, ErrInvalid
	}

	rest := fs.nextBlock(cur)
	fs.markChainEnd(cur)

	for i := target; i < current; i++ {
		if !fs.validBlock(rest) {
			return 0, ErrInvalid
		}
		next := fs.nextBlock(rest)
		fs.markFree(rest)
		rest = next
	}

	e.SizeInBlocks = uint16(target)
	return int64(target) * BlockSize, nil
}

func (fs *FS) grow(e *DirEntry, current, target int) (int64, error) {
	// Find the current tail. An empty file has no tail; the first allocated
	// block becomes the chain head.
	prev := noBlock
	cur := e.StartingBlock
	for i := 0; i < current; i++ {
		if !fs.validBlock(cur) {
			return 0, ErrInvalid
		}
		prev = cur
		cur = fs.nextBlock(cur)
	}

	alloc := int(fs.root.UserBlockCount) - 1
	for i := current; i < target; i++ {
		b, ok := fs.findFreeBelow(alloc)
		if !ok {
			// Partial grow: keep what fits.
			e.SizeInBlocks = uint16(i)
			return int64(i) * BlockSize, nil
		}
		fs.splice(e, prev, b)
		fs.markChainEnd(b)
		prev = b
		alloc = int(b) - 1
	}

	e.SizeInBlocks = uint16(target)
	return int64(target) * BlockSize, nil
}
