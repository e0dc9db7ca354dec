package vmufs

// Read copies len(buf) bytes starting at offset out of the named file.
// Reading past the end of the file is an error; callers that want POSIX
// short-read semantics clamp against Stat first. Returns the number of bytes
// copied, which on success is exactly len(buf).
func (fs *FS) Read(path string, buf []byte, offset int64) (int, error) {
	name, err := trimPath(path)
	if err != nil {
		// An oversized name cannot name any entry.
		return 0, ErrNotFound
	}

	slot := fs.lookup(name)
	if slot < 0 {
		return 0, ErrNotFound
	}
	e := &fs.entries[slot]

	fileLen := int64(e.SizeInBlocks) * BlockSize
	if offset+int64(len(buf)) > fileLen {
		return 0, ErrInvalid
	}
	if len(buf) == 0 {
		return 0, nil
	}

	// Walk to the block containing offset. Every step must stay inside the
	// user region; anything else means the chain is corrupt.
	cur := e.StartingBlock
	for i := int64(0); i < offset/BlockSize; i++ {
		if !fs.validBlock(cur) {
			return 0, ErrInvalid
		}
		cur = fs.nextBlock(cur)
	}

	read := 0
	blockOff := int(offset % BlockSize)
	for read < len(buf) {
		if !fs.validBlock(cur) {
			return 0, ErrInvalid
		}

		n := len(buf) - read
		if n > BlockSize-blockOff {
			n = BlockSize - blockOff
		}

		src := int(cur)*BlockSize + blockOff
		copy(buf[read:read+n], fs.img[src:src+n])
		read += n
		blockOff = 0

		cur = fs.nextBlock(cur)
	}

	return read, nil
}
