// Package cli provides CLI output utilities for Eiga.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "json":
		return OutputJSON, nil
	case "text", "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteAnswer writes a full pipeline response to w in the given format.
func WriteAnswer(w io.Writer, resp *models.AskResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	writeAnswerText(w, resp)
	return nil
}

func writeAnswerText(w io.Writer, resp *models.AskResponse) {
	fmt.Fprintf(w, "\n%s\n\n", resp.Answer)
	fmt.Fprintf(w, "intent: %s | found: %d | %dms\n", resp.Parsed.Intent, resp.Found, resp.QueryTime)
	if len(resp.Results) > 0 {
		fmt.Fprintln(w)
		for i, m := range resp.Results {
			fmt.Fprintf(w, "%2d. %s", i+1, utils.Truncate(m.Title, 60))
			if m.Rating != nil {
				fmt.Fprintf(w, "  %.1f/5 (%d ratings)", *m.Rating, m.NumRatings)
			}
			if len(m.Genres) > 0 {
				fmt.Fprintf(w, "  [%s]", strings.Join(m.Genres, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	if len(resp.EdgeNotes) > 0 {
		fmt.Fprintf(w, "\nnotes: %s\n", strings.Join(resp.EdgeNotes, ", "))
	}
	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(w, "suggestions: %s\n", strings.Join(resp.Suggestions, "; "))
	}
}

// WriteParse writes a parse-only response to w in the given format.
func WriteParse(w io.Writer, resp *models.ParseResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintf(w, "intent: %s\n", resp.Parsed.Intent)
	slots, err := json.MarshalIndent(resp.Parsed.Slots, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "slots: %s\n", slots)
	return nil
}
