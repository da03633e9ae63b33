// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wa-formatter/internal/draft"
	"github.com/pdiddy/wa-formatter/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage stored drafts (list, save, load, export)",
	Long: `Draft manages named rich-text drafts. Each draft is stored as
<name>.json holding {"html": ...} in the configured backend: a Google Drive
folder (--backend drive) or a local SQLite database (--backend sqlite).`,
}

// --- list subcommand ---

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored drafts",
	Args:  cobra.NoArgs,
	RunE:  runDraftList,
}

func runDraftList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatListOutput(w io.Writer, entries []types.DraftEntry, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []types.DraftEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No drafts found.")
		return nil
	}

	fmt.Fprintf(w, "%-30s  %-20s  %s\n", "Name", "Updated", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		name := e.Name
		if r := []rune(name); len(r) > 30 {
			name = string(r[:27]) + "..."
		}
		updated := "-"
		if !e.UpdatedAt.IsZero() {
			updated = e.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-30s  %-20s  %s\n", name, updated, e.ID)
	}
	fmt.Fprintf(w, "\n%d drafts\n", len(entries))
	return nil
}

// --- save subcommand ---

var draftSaveCmd = &cobra.Command{
	Use:   "save NAME [file]",
	Short: "Save rich text as a named draft",
	Long: `Save stores rich text read from a file (or stdin) under NAME. A draft
with the same name is overwritten.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDraftSave,
}

func runDraftSave(cmd *cobra.Command, args []string) error {
	name, err := draft.CleanName(args[0])
	if err != nil {
		return err
	}
	html, err := readInput(cmd.InOrStdin(), args[1:])
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), name, html); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", name)
	return nil
}

// --- load subcommand ---

var draftLoadCmd = &cobra.Command{
	Use:   "load NAME",
	Short: "Print a stored draft",
	Long: `Load prints the rich text of the draft called NAME, or its WhatsApp
translation with --whatsapp.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraftLoad,
}

func runDraftLoad(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := draft.Open(cmd.Context(), store, args[0])
	if err != nil {
		return err
	}

	whatsapp, _ := cmd.Flags().GetBool("whatsapp")
	if whatsapp {
		fmt.Fprintln(cmd.OutOrStdout(), d.WhatsApp)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), d.HTML)
	return nil
}

// --- export subcommand ---

var draftExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all drafts with their WhatsApp text to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runDraftExport,
}

func runDraftExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if out == "" || out == "-" {
		_, err := draft.Export(cmd.Context(), store, cmd.OutOrStdout(), draft.ExportFormat(format))
		return err
	}

	// Buffer the export so a failed run leaves no partial file behind.
	var buf bytes.Buffer
	n, err := draft.Export(cmd.Context(), store, &buf, draft.ExportFormat(format))
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d drafts to %s\n", n, out)
	return nil
}

func init() {
	draftListCmd.Flags().Bool("json", false, "output drafts as JSON")
	draftLoadCmd.Flags().Bool("whatsapp", false, "print the WhatsApp translation instead of the rich text")
	draftExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	draftExportCmd.Flags().String("out", "", "output file (default stdout)")

	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftSaveCmd)
	draftCmd.AddCommand(draftLoadCmd)
	draftCmd.AddCommand(draftExportCmd)

	rootCmd.AddCommand(draftCmd)
}
