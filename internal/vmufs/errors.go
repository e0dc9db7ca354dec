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

// Error is a driver error kind. Each kind corresponds to exactly one POSIX
// errno; the translation to errno values lives next to the mount layer.
type Error string

const (
	// ErrNameTooLong reports a filename longer than MaxFilename bytes.
	ErrNameTooLong = Error("file name too long")

	// ErrExists reports a name collision, or a write at a non-zero offset
	// into a file that does not exist yet.
	ErrExists = Error("file exists")

	// ErrNotFound reports a path that matches no directory entry.
	ErrNotFound = Error("no such file")

	// ErrNoSpace reports that no free block or directory slot is left, or
	// that the image cannot hold the requested size.
	ErrNoSpace = Error("no space left on image")

	// ErrInvalid reports a FAT chain stepping into an out-of-range block,
	// or a read past the end of a file.
	ErrInvalid = Error("invalid block chain")

	// ErrBadImage reports an image blob that is not exactly ImageSize bytes.
	ErrBadImage = Error("image needs cleaning: wrong size")
)

func (e Error) Error() string {
	return string(e)
}
