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
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmukit/vmufuse/internal/vmufs"
	ioutil "github.com/vmukit/vmufuse/pkg/util/io"
	osutil "github.com/vmukit/vmufuse/pkg/util/os"
)

func DefineExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <image_path> [files...]",
		Short: "Copy files out of a VMU card image",
		Long: `The 'extract' command copies files from a VMU card image into a directory on
the host. With no file arguments every file on the card is extracted.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunExtract,
	}

	cmd.Flags().StringP("output-dir", "o", ".", "Directory where extracted files are placed")
	return cmd
}

func RunExtract(cmd *cobra.Command, args []string) error {
	vmu, err := loadCard(args[0])
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	if _, err := osutil.EnsureDir(outDir, false); err != nil {
		return err
	}

	names := args[1:]
	if len(names) == 0 {
		for _, fi := range vmu.ReadDir() {
			names = append(names, fi.Name)
		}
	}

	for _, name := range names {
		if err := extractFile(vmu, name, outDir); err != nil {
			return fmt.Errorf("failed to extract %q: %w", name, err)
		}
		fmt.Printf("[INFO] extracted %s\n", filepath.Join(outDir, name))
	}
	return nil
}

func extractFile(vmu *vmufs.FS, name, outDir string) error {
	fi, err := vmu.Stat(name)
	if err != nil {
		return err
	}

	buf := make([]byte, fi.Size)
	if _, err := vmu.Read(name, buf, 0); err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(outDir, name), bytes.NewReader(buf))
}
