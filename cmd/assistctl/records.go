package main

import (
	"github.com/choiben-assist/ai-backend/internal/config"
	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/notes"
	"github.com/choiben-assist/ai-backend/internal/modules/records"
	"github.com/choiben-assist/ai-backend/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var recordsHeuristic bool

var recordsCmd = &cobra.Command{
	Use:   "records <scrapbox project>",
	Short: "Summarize recent learning records of a Scrapbox project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err := logger.New("", cfg.Debug)
		if err != nil {
			return err
		}
		defer log.Sync()

		var gen llm.Generator
		if !recordsHeuristic && cfg.LLM.APIKey != "" {
			gen = llm.NewProvider(cfg.LLM, log)
		}
		orch := records.NewOrchestrator(notes.New(cfg.Notes, log), gen, nil, cfg.Notes, log)
		return writeOutput(cmd.OutOrStdout(), orch.GetLearningRecords(cmd.Context(), args[0], ""))
	},
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsHeuristic, "heuristic", false, "skip the model and use keyword analysis only")
}
