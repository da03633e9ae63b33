// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wa-formatter/internal/draft"
	"github.com/pdiddy/wa-formatter/internal/markup"
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Translate rich text into WhatsApp markup",
	Long: `Format reads editor rich text from a file, from stdin, or from a stored
draft (--draft) and prints the WhatsApp version: <b>/<strong> become *bold*,
<i>/<em> become _italic_, <s>/<strike> become ~strikethrough~, <code> becomes
` + "```monospace```" + `, and every other tag is stripped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().String("draft", "", "translate the stored draft with this name instead of reading input")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("draft")

	var html string
	if name != "" {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := draft.Open(cmd.Context(), store, name)
		if err != nil {
			return err
		}
		html = d.HTML
	} else {
		in, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		html = in
	}

	fmt.Fprintln(cmd.OutOrStdout(), markup.Translate(html))
	return nil
}

// readInput returns the contents of the file named in args, or stdin when
// no file (or "-") is given.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
