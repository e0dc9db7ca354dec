package vmufs

import "strings"

// Rename changes a file's name in place. The data chain is untouched. The
// source name is matched truncated to MaxFilename bytes, like any lookup;
// only the destination is length-checked.
func (fs *FS) Rename(from, to string) error {
	fromName := strings.TrimPrefix(from, "/")

	toName, err := trimPath(to)
	if err != nil {
		return err
	}

	if truncateName(fromName) == truncateName(toName) {
		return nil
	}

	if fs.lookup(toName) >= 0 {
		return ErrExists
	}

	slot := fs.lookup(fromName)
	if slot < 0 {
		return ErrNotFound
	}

	fs.entries[slot].setName(toName)
	return nil
}

// Remove deletes a file: every block of its chain is returned to the free
// pool and the directory slot is released.
func (fs *FS) Remove(path string) error {
	name, err := trimPath(path)
	if err != nil {
		return err
	}

	slot := fs.lookup(name)
	if slot < 0 {
		return ErrNotFound
	}
	e := &fs.entries[slot]

	// Bounded walk: a corrupt chain must not loop forever. Freeing as we go
	// also breaks any cycle on its second visit.
	cur := e.StartingBlock
	for steps := 0; cur != FATChainEnd; steps++ {
		if steps >= TotalBlocks || !fs.validBlock(cur) {
			return ErrInvalid
		}
		next := fs.nextBlock(cur)
		fs.markFree(cur)
		cur = next
	}

	fs.clearSlot(slot)
	return nil
}
