// ABOUTME: CLI command to export the SQLite memory store
// ABOUTME: Writes every session of the current memory id as YAML, JSON or Markdown
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var exportOutput string

// NewExportCmd creates export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session memory",
		Long: `Export all sessions of the configured memory id.

The global --format flag picks the encoding: yaml (default),
json or markdown. Only the sqlite backend can be exported.

Examples:
  triprouter export
  triprouter export --output backup.yaml
  triprouter export --format json --output backup.json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// exportFormat maps the global --format value to an export encoding
func exportFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "markdown", "md":
		return "markdown"
	default:
		return "yaml"
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.SQLite == nil {
		return fmt.Errorf("export needs MEMORY_ID with the sqlite backend")
	}

	format := exportFormat(outputFormat)
	if exportOutput != "" {
		if err := a.SQLite.ExportToFile(cmd.Context(), exportOutput, format); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", exportOutput)
		}
		return nil
	}

	data, err := a.SQLite.Export(cmd.Context())
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	return data.Write(cmd.OutOrStdout(), format)
}
