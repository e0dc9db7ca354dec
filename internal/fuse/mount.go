//go:build !linux
// +build !linux

package fuse

import (
	"fmt"
	"log/slog"

	"github.com/vmukit/vmufuse/internal/vmufs"
)

// Options configure a card mount.
type Options struct {
	ReadOnly bool
	Logger   *slog.Logger
}

func Mount(mountpoint string, vmu *vmufs.FS, opts Options) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
