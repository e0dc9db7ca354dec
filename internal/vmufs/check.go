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
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Check validates the filesystem invariants over the live mirror and FAT:
// every non-free entry's chain has exactly its recorded length and terminates
// cleanly, no block belongs to two chains, free cells are exactly the
// unreferenced ones, and filenames are unique. Violations are collected, not
// fail-fast; a nil return means the card is consistent.
func (fs *FS) Check() error {
	var result *multierror.Error

	userBlocks := int(fs.root.UserBlockCount)
	owner := make([]int, userBlocks)
	for i := range owner {
		owner[i] = -1
	}

	names := make(map[string]int)
	allocatedWant := 0

	for i := 0; i < TotalDirEntries; i++ {
		e := &fs.entries[i]
		if e.free {
			continue
		}

		if prev, ok := names[e.Name()]; ok {
			result = multierror.Append(result, fmt.Errorf(
				"slots %d and %d share the name %q", prev, i, e.Name()))
		} else {
			names[e.Name()] = i
		}

		allocatedWant += int(e.SizeInBlocks)

		if e.SizeInBlocks == 0 {
			if e.StartingBlock != FATChainEnd {
				result = multierror.Append(result, fmt.Errorf(
					"slot %d (%q): empty file starts at block %d instead of the chain-end mark",
					i, e.Name(), e.StartingBlock))
			}
			continue
		}

		cur := e.StartingBlock
		broken := false
		for n := 0; n < int(e.SizeInBlocks); n++ {
			if int(cur) >= userBlocks {
				result = multierror.Append(result, fmt.Errorf(
					"slot %d (%q): chain leaves the user region at step %d (block %#04x)",
					i, e.Name(), n, cur))
				broken = true
				break
			}
			if owner[cur] >= 0 {
				result = multierror.Append(result, fmt.Errorf(
					"slot %d (%q): block %d already belongs to slot %d",
					i, e.Name(), cur, owner[cur]))
				broken = true
				break
			}
			owner[cur] = i
			cur = fs.nextBlock(cur)
		}

		if !broken && cur != FATChainEnd {
			result = multierror.Append(result, fmt.Errorf(
				"slot %d (%q): chain does not end after %d blocks (cell %#04x)",
				i, e.Name(), e.SizeInBlocks, cur))
		}
	}

	allocated := 0
	for b := 0; b < userBlocks; b++ {
		cell := fs.nextBlock(uint16(b))
		if cell != FATUnallocated {
			allocated++
		}
		if owner[b] < 0 && cell != FATUnallocated {
			result = multierror.Append(result, fmt.Errorf(
				"block %d belongs to no file but its FAT cell is %#04x", b, cell))
		}
		if owner[b] >= 0 && cell == FATUnallocated {
			result = multierror.Append(result, fmt.Errorf(
				"block %d belongs to slot %d but is marked free", b, owner[b]))
		}
	}

	if allocated != allocatedWant {
		result = multierror.Append(result, fmt.Errorf(
			"%d FAT cells allocated, directory accounts for %d", allocated, allocatedWant))
	}

	return result.ErrorOrNil()
}
