// ABOUTME: Export functionality for conversation memory
// ABOUTME: Supports YAML, JSON and Markdown export formats
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string          `yaml:"version" json:"version"`
	ExportedAt string          `yaml:"exported_at" json:"exported_at"`
	Tool       string          `yaml:"tool" json:"tool"`
	MemoryID   string          `yaml:"memory_id" json:"memory_id"`
	Sessions   []ExportSession `yaml:"sessions,omitempty" json:"sessions,omitempty"`
}

// ExportSession is one (actor, session) history
type ExportSession struct {
	ActorID   string       `yaml:"actor_id" json:"actor_id"`
	SessionID string       `yaml:"session_id" json:"session_id"`
	Summary   string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Turns     []ExportTurn `yaml:"turns" json:"turns"`
}

// ExportTurn represents a turn for export
type ExportTurn struct {
	TurnID    string `yaml:"turn_id" json:"turn_id"`
	Role      string `yaml:"role" json:"role"`
	Content   string `yaml:"content" json:"content"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
}

// Export collects every session of this memory
func (s *Storage) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tool:       AppName,
		MemoryID:   s.memoryID,
	}

	keys, err := s.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	for _, key := range keys {
		turns, err := s.GetRecentTurns(ctx, key, 0)
		if err != nil {
			return nil, err
		}
		summary, err := s.GetSummary(ctx, key)
		if err != nil {
			return nil, err
		}

		session := ExportSession{
			ActorID:   key.ActorID,
			SessionID: key.SessionID,
			Summary:   summary,
			Turns:     make([]ExportTurn, 0, len(turns)),
		}
		for _, turn := range turns {
			et := ExportTurn{
				TurnID:  turn.TurnID,
				Role:    string(turn.Role),
				Content: turn.Content,
			}
			if turn.Timestamp != nil {
				et.Timestamp = turn.Timestamp.Format(time.RFC3339)
			}
			session.Turns = append(session.Turns, et)
		}
		data.Sessions = append(data.Sessions, session)
	}

	return data, nil
}

// WriteYAML encodes the export as YAML
func (d *ExportData) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes the export as indented JSON
func (d *ExportData) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders the export as a readable transcript
func (d *ExportData) WriteMarkdown(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Memory Export - %s\n\n", d.MemoryID)
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", d.ExportedAt)

	for _, session := range d.Sessions {
		_, _ = fmt.Fprintf(w, "## %s / %s\n\n", session.ActorID, session.SessionID)
		if session.Summary != "" {
			_, _ = fmt.Fprintf(w, "*Summary: %s*\n\n", session.Summary)
		}
		for _, turn := range session.Turns {
			_, _ = fmt.Fprintf(w, "**%s:** %s\n\n", turn.Role, turn.Content)
		}
		_, _ = fmt.Fprintln(w, "---")
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

// ExportToFile writes the export to outputPath in the given format (yaml, json or markdown)
func (s *Storage) ExportToFile(ctx context.Context, outputPath, format string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return data.Write(file, format)
}

// Write encodes the export in the named format
func (d *ExportData) Write(w io.Writer, format string) error {
	switch format {
	case "yaml", "yml", "":
		return d.WriteYAML(w)
	case "json":
		return d.WriteJSON(w)
	case "markdown", "md":
		return d.WriteMarkdown(w)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
