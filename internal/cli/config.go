package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zhangqin/crossgraph/internal/config"
	"github.com/zhangqin/crossgraph/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage crossgraph configuration",
	Long: `Manage crossgraph configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Flat environment variables (OPENAI_API_KEY, NEO4J_URI, KG_SEED_CONCEPTS, ...)
3. Environment variables (KG_*)
4. Config file (./config.yaml or ~/.crossgraph/config.yaml)
5. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Credentials stay out of the terminal.
		cfg.LLM.APIKey = mask(cfg.LLM.APIKey)
		cfg.Store.Password = mask(cfg.Store.Password)
		cfg.Evidence.CnkiKey = mask(cfg.Evidence.CnkiKey)

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.crossgraph/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.crossgraph"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'crossgraph config show' to view it, or delete it first to recreate", configPath)
		}
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := "# Crossgraph configuration file\n" +
			"#\n" +
			"# Credentials are better supplied via the environment:\n" +
			"#   export OPENAI_API_KEY=sk-...     (or DEEPSEEK_API_KEY)\n" +
			"#   export NEO4J_URI=bolt://localhost:7687\n" +
			"#   export NEO4J_PASSWORD=...\n\n"
		if err := os.WriteFile(configPath, append([]byte(header), yamlData...), 0o644); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		return nil
	},
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
