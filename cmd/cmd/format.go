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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmukit/vmufuse/internal/image"
	"github.com/vmukit/vmufuse/internal/vmufs"
)

func DefineFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <image_path>",
		Short: "Create a blank, formatted VMU card image",
		Long: `The 'format' command writes a brand-new 128 KiB VMU card image: empty
directory, empty FAT, canonical system area. It refuses to overwrite an
existing file unless --force is given.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunFormat,
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite the destination if it already exists")
	return cmd
}

func RunFormat(cmd *cobra.Command, args []string) error {
	path := args[0]

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	vmu := vmufs.Format(time.Now())
	vmu.Serialize()

	if err := image.Save(path, vmu.Image()); err != nil {
		return err
	}

	fmt.Printf("[INFO] formatted %s: %d user blocks, %d directory slots\n",
		path, vmu.Root().UserBlockCount, vmufs.TotalDirEntries)
	return nil
}
