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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vmukit/vmufuse/internal/image"
	"github.com/vmukit/vmufuse/internal/vmufs"
	fmtutil "github.com/vmukit/vmufuse/pkg/util/format"
)

func DefineInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "info <image_path>",
		Short:        "Print the volume metadata of a VMU card image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}
}

func RunInfo(cmd *cobra.Command, args []string) error {
	vmu, err := loadCard(args[0])
	if err != nil {
		return err
	}

	root := vmu.Root()
	used := 0
	for _, fi := range vmu.ReadDir() {
		used += int(fi.Blocks)
	}
	free := int(root.UserBlockCount) - used

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Formatted:\t%s\n", root.Timestamp.Time().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Custom color:\t%v\n", root.CustomColor())
	if root.CustomColor() {
		fmt.Fprintf(w, "Color (BGRA):\t%d %d %d %d\n", root.Blue, root.Green, root.Red, root.Alpha)
	}
	fmt.Fprintf(w, "Icon shape:\t%d\n", root.IconShape)
	fmt.Fprintf(w, "FAT:\tblock %d (%d block(s))\n", root.FATLocation, root.FATSize)
	fmt.Fprintf(w, "Directory:\tblock %d (%d block(s))\n", root.DirectoryLocation, root.DirectorySize)
	fmt.Fprintf(w, "User blocks:\t%d\n", root.UserBlockCount)
	fmt.Fprintf(w, "Used:\t%d block(s), %s\n", used, fmtutil.FormatBytes(int64(used)*vmufs.BlockSize))
	fmt.Fprintf(w, "Free:\t%d block(s), %s\n", free, fmtutil.FormatBytes(int64(free)*vmufs.BlockSize))
	return w.Flush()
}

func loadCard(path string) (*vmufs.FS, error) {
	img, err := image.Load(path)
	if err != nil {
		return nil, err
	}
	return vmufs.ReadFS(img)
}
