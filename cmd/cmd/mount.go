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
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmukit/vmufuse/internal/fuse"
	"github.com/vmukit/vmufuse/internal/image"
	"github.com/vmukit/vmufuse/internal/vmufs"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image_path>",
		Short: "Mount a VMU card image to a specified mountpoint",
		Long: `The 'mount' command exposes the files of a VMU card image through a FUSE
mountpoint. The image is held in memory while mounted; unless --read-only is
given, the modified image is written back to disk when the card is unmounted.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "Path to the directory where the card will be mounted. If not specified, a default is derived from the image name.")
	cmd.Flags().Bool("read-only", false, "Mount the card read-only and skip the write-back at unmount")
	cmd.Flags().String("log-level", "INFO", "Minimum log level (DEBUG, INFO, WARN, ERROR)")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	imgPath := args[0]

	readOnly, _ := cmd.Flags().GetBool("read-only")
	logLevel, _ := cmd.Flags().GetString("log-level")

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(imgPath)
	}

	logger := newLogger(logLevel)

	img, err := image.Load(imgPath)
	if err != nil {
		return err
	}

	vmu, err := vmufs.ReadFS(img)
	if err != nil {
		return err
	}

	err = fuse.Mount(mountpoint, vmu, fuse.Options{
		ReadOnly: readOnly,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if readOnly {
		return nil
	}

	vmu.Serialize()
	if err := image.Save(imgPath, vmu.Image()); err != nil {
		return err
	}
	logger.Info("image written back", "path", imgPath)
	return nil
}

// getMountpoint derives a mountpoint name from the image file name by
// stripping the extension. If the extension is empty, "_mnt" is added.
func getMountpoint(imgPath string) string {
	baseName := filepath.Base(imgPath)
	ext := filepath.Ext(baseName)
	baseName = strings.TrimSuffix(baseName, ext)
	mountpoint := baseName
	if ext == "" {
		mountpoint += "_mnt"
	}
	return mountpoint
}

func newLogger(level string) *slog.Logger {
	var minLevel slog.Level
	if err := minLevel.UnmarshalText([]byte(level)); err != nil {
		minLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: minLevel,
	})
	return slog.New(handler)
}
