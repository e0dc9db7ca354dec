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
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func DefineCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <image_path>",
		Short: "Verify the consistency of a VMU card image",
		Long: `The 'check' command walks every FAT chain of a VMU card image and verifies
that the directory, the FAT and the per-file metadata agree with each other.
Violations are reported one per line; nothing is repaired.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunCheck,
	}
}

func RunCheck(cmd *cobra.Command, args []string) error {
	vmu, err := loadCard(args[0])
	if err != nil {
		return err
	}

	err = vmu.Check()
	if err == nil {
		fmt.Printf("[INFO] %s: %d file(s), card is consistent\n", args[0], len(vmu.ReadDir()))
		return nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			fmt.Printf("[ERROR] %s\n", e)
		}
		return fmt.Errorf("%d violation(s) found", len(merr.Errors))
	}
	return err
}
