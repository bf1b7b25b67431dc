package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func rootCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:          "dsdemo",
		Short:        "Routed SQL data sources with pool metrics",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadEnvFile(envFile)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Environment file loaded before the config is expanded (default .env if present)")

	cmd.AddCommand(serveCmd(&configPath), validateCmd(&configPath))
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Open the data sources and serve metrics until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			fx.New(appOptions(cfg)).Run()
			return nil
		},
	}
}

func validateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and the dependency graph without connecting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := fx.ValidateApp(appOptions(cfg)); err != nil {
				return fmt.Errorf("invalid application graph: %w", err)
			}

			names := make([]string, 0, len(cfg.Router.DataSources))
			for name := range cfg.Router.DataSources {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sc := cfg.Router.DataSources[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", name, sc.Driver, kindOf(sc.Kind))
			}
			return nil
		},
	}
}

func kindOf(kind string) string {
	if kind == "" {
		return "pool"
	}
	return kind
}

// loadEnvFile loads path into the environment, or ./.env when path is empty
// and the file exists. Variables already set are kept.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		return nil
	}

	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading .env file: %w", err)
}
