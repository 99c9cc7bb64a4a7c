/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkFlags = &outputFlags{}

var checkCmd = &cobra.Command{
	Use:   "check [SOURCE]",
	Short: "check that generated icons are up to date",
	Long:  `check that every generated icon exists, has its declared size and still matches the source image.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g, err := newGenerator(checkFlags, false)
		if err != nil {
			return err
		}
		report, err := g.Check(ctx, sourceArg(args))
		if err != nil {
			return err
		}
		cmd.Println()
		if report.OK() {
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "All icons are up to date.")
			return nil
		}
		var failed int
		for _, f := range report.Findings {
			if !f.OK() {
				failed++
			}
		}
		return fmt.Errorf("%d of %d icons are missing or stale; run `icongen generate`", failed, len(report.Findings))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkFlags.register(checkCmd)
}
