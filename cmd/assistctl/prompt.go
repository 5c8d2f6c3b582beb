package main

import (
	"fmt"
	"strings"

	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/prompts"
	"github.com/spf13/cobra"
)

var promptValues []string

var promptCmd = &cobra.Command{
	Use:   "prompt <category>",
	Short: "Render the full prompt sent for a category",
	Long: `Render the system and user templates of a category and print the combined
prompt exactly as the gateway would send it. Fields are set with --set key=value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := prompts.ParseCategory(args[0])
		if err != nil {
			return err
		}
		values, err := parseValues(promptValues)
		if err != nil {
			return err
		}
		system, user, err := prompts.RenderPair(category, values)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), llm.BuildPrompt(system, user))
		return err
	},
}

func init() {
	promptCmd.Flags().StringArrayVar(&promptValues, "set", nil, "template field as key=value (repeatable)")
}

func parseValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
