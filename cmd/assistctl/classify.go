package main

import (
	"strings"

	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/spf13/cobra"
)

type classification struct {
	Kind              string `json:"kind" yaml:"kind"`
	Message           string `json:"message" yaml:"message"`
	RetryAfterSeconds *int   `json:"retry_after_seconds,omitempty" yaml:"retry_after_seconds,omitempty"`
	StatusCode        *int   `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	FreeTier          bool   `json:"free_tier,omitempty" yaml:"free_tier,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <upstream error message>",
	Short: "Show how an upstream error message would be reported to clients",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := llm.ClassifyMessage(strings.Join(args, " "))
		return writeOutput(cmd.OutOrStdout(), classification{
			Kind:              e.Kind.String(),
			Message:           e.Message,
			RetryAfterSeconds: e.RetryAfterSeconds,
			StatusCode:        e.StatusCode,
			FreeTier:          e.FreeTier,
		})
	},
}
