// Package cli implements the triage command line tool, which runs the rule-based
// classifiers locally without a server or database.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"health-triage/internal/agent"
	"health-triage/internal/logging"
	"health-triage/internal/triage"
)

type options struct {
	json  bool
	debug bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "triage",
		Short: "Rule-based symptom and mood triage",
		Long: `triage classifies free-text symptom and mood descriptions with the same
keyword rules the API uses. Results are informational only and never a diagnosis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			logging.SetupWriter(cmd.ErrOrStderr(), level, "console")
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newSymptomsCommand(opts))
	rootCmd.AddCommand(newMoodCommand(opts))
	rootCmd.AddCommand(newImageCommand(opts))
	rootCmd.AddCommand(newIntentCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newSymptomsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "symptoms <description>",
		Short:   "Classify a symptom description",
		Example: `  triage symptoms "fever and a bad headache since yesterday"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := triage.ClassifySymptoms(strings.Join(args, " "))
			if err != nil {
				return err
			}
			log.Debug().Strs("labels", result.DetectedLabels).Msg("Symptoms classified")
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printSymptoms(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newMoodCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mood <narrative>",
		Short: "Assess the risk tier of a mood narrative",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := triage.ClassifyMood(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printMood(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newImageCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "image <file-name>",
		Short: "Triage an image by its file name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := triage.AnalyzeImage(args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printImage(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newIntentCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "intent <message>",
		Short: "Show how the health copilot would route a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, reply := agent.Classify(strings.Join(args, " "))
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"intent": name, "reply": reply})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Intent: %s\n\n%s\n", name, reply)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
