//go:build linux
// +build linux

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
package fuse

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"golang.org/x/sys/unix"

	"github.com/vmukit/vmufuse/internal/vmufs"
)

// CardFS serves one parsed VMU card over FUSE. The engine underneath is
// single-threaded by design, so every callback funnels through one mutex; the
// card is a flat namespace of at most 208 files, contention is not a concern.
type CardFS struct {
	mtx sync.Mutex
	vmu *vmufs.FS

	readOnly bool
	log      *slog.Logger
}

func (c *CardFS) Root() (fs.Node, error) {
	return &Dir{c: c}, nil
}

// errnoOf translates an engine error into the single errno it corresponds to.
func errnoOf(err error) error {
	switch {
	case errors.Is(err, vmufs.ErrNameTooLong):
		return fuse.Errno(syscall.ENAMETOOLONG)
	case errors.Is(err, vmufs.ErrExists):
		return fuse.Errno(syscall.EEXIST)
	case errors.Is(err, vmufs.ErrNotFound):
		return fuse.ENOENT
	case errors.Is(err, vmufs.ErrNoSpace):
		return fuse.Errno(syscall.ENOSPC)
	case errors.Is(err, vmufs.ErrInvalid):
		return fuse.Errno(syscall.EINVAL)
	case errors.Is(err, vmufs.ErrBadImage):
		return fuse.Errno(unix.EUCLEAN)
	}
	return err
}

// Dir is the root (and only) directory of the card.
type Dir struct {
	c *CardFS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0755
	a.Nlink = 2
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.c.mtx.Lock()
	defer d.c.mtx.Unlock()

	if _, err := d.c.vmu.Stat(name); err != nil {
		return nil, errnoOf(err)
	}
	return &File{c: d.c, name: name}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.c.mtx.Lock()
	defer d.c.mtx.Unlock()

	infos := d.c.vmu.ReadDir()

	dirEntries := make([]fuse.Dirent, len(infos))
	for i, fi := range infos {
		dirEntries[i] = fuse.Dirent{
			Inode: uint64(i + 2),
			Name:  fi.Name,
			Type:  fuse.DT_File,
		}
	}
	return dirEntries, nil
}

func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fs.Node, fs.Handle, error) {
	if d.c.readOnly {
		return nil, nil, fuse.Errno(syscall.EROFS)
	}

	d.c.mtx.Lock()
	defer d.c.mtx.Unlock()

	if err := d.c.vmu.Create(req.Name); err != nil {
		return nil, nil, errnoOf(err)
	}
	d.c.log.Debug("file created", "name", req.Name)

	f := &File{c: d.c, name: req.Name}
	return f, f, nil
}

func (d *Dir) Mknod(ctx context.Context, req *fuse.MknodRequest) (fs.Node, error) {
	if d.c.readOnly {
		return nil, fuse.Errno(syscall.EROFS)
	}

	d.c.mtx.Lock()
	defer d.c.mtx.Unlock()

	if err := d.c.vmu.Create(req.Name); err != nil {
		return nil, errnoOf(err)
	}
	return &File{c: d.c, name: req.Name}, nil
}

func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	if d.c.readOnly {
		return fuse.Errno(syscall.EROFS)
	}
	if req.Dir {
		// The card has no subdirectories.
		return fuse.ENOENT
	}

	d.c.mtx.Lock()
	defer d.c.mtx.Unlock()

	if err := d.c.vmu.Remove(req.Name); err != nil {
		return errnoOf(err)
	}
	d.c.log.Debug("file removed", "name", req.Name)
	return nil
}

func (d *Dir) Rename(ctx context.Context, req *fuse.RenameRequest, newDir fs.Node) error {
	if d.c.readOnly {
		return fuse.Errno(syscall.EROFS)
	}

	d.c.mtx.Lock()
	defer d.c.mtx.Unlock()

	if err := d.c.vmu.Rename(req.OldName, req.NewName); err != nil {
		return errnoOf(err)
	}
	return nil
}

// File is one card file, addressed by name: the engine's interface is
// path-based, so the node carries no state besides its name.
type File struct {
	c    *CardFS
	name string
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	f.c.mtx.Lock()
	defer f.c.mtx.Unlock()

	fi, err := f.c.vmu.Stat(f.name)
	if err != nil {
		return errnoOf(err)
	}

	a.Mode = 0666
	a.Nlink = 1
	a.Size = uint64(fi.Size)
	// The card records a single BCD creation stamp; every time is that one.
	a.Mtime = fi.ModTime
	a.Atime = fi.ModTime
	a.Ctime = fi.ModTime
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	f.c.mtx.Lock()
	defer f.c.mtx.Unlock()

	fi, err := f.c.vmu.Stat(f.name)
	if err != nil {
		return errnoOf(err)
	}

	// The kernel reads in page-sized chunks regardless of file size; clamp
	// at EOF before entering the engine, which treats overreads as errors.
	size := int64(req.Size)
	offset := req.Offset
	if offset >= fi.Size {
		resp.Data = []byte{}
		return nil
	}
	if offset+size > fi.Size {
		size = fi.Size - offset
	}

	buf := make([]byte, size)
	n, err := f.c.vmu.Read(f.name, buf, offset)
	if err != nil {
		return errnoOf(err)
	}

	resp.Data = buf[:n]
	return nil
}

func (f *File) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	if f.c.readOnly {
		return fuse.Errno(syscall.EROFS)
	}

	f.c.mtx.Lock()
	defer f.c.mtx.Unlock()

	n, err := f.c.vmu.Write(f.name, req.Data, req.Offset)
	if err != nil {
		return errnoOf(err)
	}

	resp.Size = n
	return nil
}

func (f *File) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	if req.Valid.Size() {
		if f.c.readOnly {
			return fuse.Errno(syscall.EROFS)
		}

		f.c.mtx.Lock()
		_, err := f.c.vmu.Truncate(f.name, int64(req.Size))
		f.c.mtx.Unlock()
		if err != nil {
			return errnoOf(err)
		}
	}

	// Ownership and time updates are accepted and ignored: the card stores
	// none of them.
	return f.Attr(ctx, &resp.Attr)
}

func (f *File) Fsync(ctx context.Context, req *fuse.FsyncRequest) error {
	// The image lives in memory until unmount.
	return nil
}
