package main

import (
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hal9000y/gmail-assistant/internal/tone"
)

type toneEntry struct {
	ID           tone.ToneID        `json:"id"`
	Description  string             `json:"description"`
	Alternatives []tone.Alternative `json:"alternatives"`
}

func newTonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tones",
		Short: "Print the available tones as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			descriptions := tone.List()

			entries := make([]toneEntry, 0, len(descriptions))
			for _, id := range tone.IDs() {
				entries = append(entries, toneEntry{
					ID:           id,
					Description:  descriptions[id],
					Alternatives: tone.SuggestAlternatives(id),
				})
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <tone> <text>...",
		Short: "Score how well a text matches a tone, offline",
		Long: `Score how well a text matches a tone using the tone keyword table only.
Unknown tones are scored as professional. Remaining arguments are joined with
spaces to form the text.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := tone.Score(strings.Join(args[1:], " "), tone.ToneID(args[0]))
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
