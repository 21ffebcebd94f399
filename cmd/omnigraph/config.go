package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Secrets stay out of the dump.
		redacted := *cfg
		if redacted.Database.Password != "" {
			redacted.Database.Password = "[redacted]"
		}
		if redacted.LLM.APIKey != "" {
			redacted.LLM.APIKey = "[redacted]"
		}
		if redacted.Embedding.APIKey != "" {
			redacted.Embedding.APIKey = "[redacted]"
		}
		if redacted.Cache.Password != "" {
			redacted.Cache.Password = "[redacted]"
		}
		return yaml.NewEncoder(os.Stdout).Encode(redacted)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
