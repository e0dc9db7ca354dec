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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/vmukit/vmufuse/internal/vmufs"
	osutil "github.com/vmukit/vmufuse/pkg/util/os"
)

// Options configure a card mount.
type Options struct {
	// ReadOnly rejects every mutating callback with EROFS.
	ReadOnly bool

	Logger *slog.Logger
}

// Mount serves the parsed card at mountpoint until the process receives an
// interrupt or termination signal, then unmounts and returns. The caller is
// responsible for persisting the (possibly modified) image afterwards.
func Mount(mountpoint string, vmu *vmufs.FS, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	created, err := osutil.EnsureDir(mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	mountOpts := []fuse.MountOption{
		fuse.FSName("vmufs"),
		fuse.Subtype("vmufuse"),
	}
	if opts.ReadOnly {
		mountOpts = append(mountOpts, fuse.ReadOnly())
	}

	c, err := fuse.Mount(mountpoint, mountOpts...)
	if err != nil {
		return err
	}
	defer c.Close()

	cardFS := &CardFS{
		vmu:      vmu,
		readOnly: opts.ReadOnly,
		log:      log,
	}

	serveErr := make(chan error, 1)
	go func() {
		srv := fusefs.New(c, nil)
		serveErr <- srv.Serve(cardFS)
	}()

	log.Info("card mounted", "mountpoint", mountpoint, "read_only", opts.ReadOnly)
	return waitForUmount(mountpoint, serveErr, log)
}

// waitForUmount blocks until a termination signal arrives, then tries to
// unmount. A busy mountpoint gets a bounded number of retries, one per
// further signal.
func waitForUmount(mountpoint string, serveErr chan error, log *slog.Logger) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	const maxUnmountRetries = 3

	attempts := 0
	for {
		select {
		case err := <-serveErr:
			// Unmounted externally (e.g. fusermount -u) or serve failure.
			return err
		case sig := <-sigc:
			log.Info("signal received", "signal", sig.String())
		}

		if attempts >= maxUnmountRetries {
			log.Error("unable to unmount, giving up", "mountpoint", mountpoint, "attempts", attempts)
			return fuse.Unmount(mountpoint)
		}

		attempts++
		if err := fuse.Unmount(mountpoint); err != nil {
			log.Warn("unmount failed, waiting for another signal",
				"mountpoint", mountpoint, "err", err,
				"remaining_retries", maxUnmountRetries-attempts)
			continue
		}

		log.Info("unmounted", "mountpoint", mountpoint)
		return <-serveErr
	}
}
