package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/choiben-assist/ai-backend/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "assistctl",
	Short: "Offline tools for the learning assistant backend",
	Long: `assistctl exercises the assistant's building blocks without running the server:

  - classify upstream error messages the way the gateway does
  - render prompt templates with field values
  - summarize a Scrapbox project's recent learning records`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(classifyCmd, promptCmd, recordsCmd)
}

func writeOutput(w io.Writer, v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
