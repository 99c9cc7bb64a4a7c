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
	"github.com/spf13/cobra"
)

var (
	genFlags = &outputFlags{}
	watch    bool
	manifest bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [SOURCE]",
	Short: "generate icons from a source image",
	Long: `generate icons from a source image.

SOURCE may be a local image file (PNG, JPEG, GIF, WebP, BMP, TIFF, SVG) or an http(s) URL.
It defaults to source_icon.png.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g, err := newGenerator(genFlags, manifest)
		if err != nil {
			return err
		}
		source := sourceArg(args)
		if watch {
			return g.Watch(ctx, source)
		}
		if _, err := g.Generate(ctx, source); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	genFlags.register(generateCmd)
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the source changes")
	generateCmd.Flags().BoolVarP(&manifest, "manifest", "", false, "write a web manifest referencing the icons")
}
