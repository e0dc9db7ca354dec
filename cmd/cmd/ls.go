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

	fmtutil "github.com/vmukit/vmufuse/pkg/util/format"
)

func DefineLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "ls <image_path>",
		Short:        "List the files stored on a VMU card image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunLs,
	}
}

func RunLs(cmd *cobra.Command, args []string) error {
	vmu, err := loadCard(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tPROT\tSTART\tBLOCKS\tSIZE\tCREATED")

	for _, fi := range vmu.ReadDir() {
		prot := "-"
		if fi.CopyProtected {
			prot = "yes"
		}

		start := "-"
		if fi.Blocks > 0 {
			start = fmt.Sprintf("%d", fi.StartingBlock)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			fi.Name,
			fi.Type,
			prot,
			start,
			fi.Blocks,
			fmtutil.FormatBytes(fi.Size),
			fi.ModTime.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
