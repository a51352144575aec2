// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/config"
	"github.com/xkilldash9x/pageutils/internal/observability"
)

type contextKey string

const (
	configKey contextKey = "config"
	runIDKey  contextKey = "run_id"
)

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own viper instance.
func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "pageutils",
		Short: "pageutils simulates user interaction against HTML pages.",
		Long: `pageutils loads an HTML page, performs clicks, event dispatches and
form filling against it the way a page-injected helper would, prints the
result as JSON and optionally writes the mutated page back out.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetDefaults(v)
			if err := initializeConfig(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				_ = observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pageutils"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			if err := observability.InitializeLogger(cfg.Logger()); err != nil {
				return err
			}

			runID := uuid.New().String()
			observability.ForRun(runID).Debug("Starting pageutils", zap.String("version", Version), zap.String("command", cmd.Name()))

			ctx := context.WithValue(cmd.Context(), configKey, cfg)
			ctx = context.WithValue(ctx, runIDKey, runID)
			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	rootCmd.AddCommand(
		newClickCmd(),
		newExistsCmd(),
		newFireOnCmd(),
		newFireCmd(),
		newSetCmd(),
		newGetCmd(),
		newFillCmd(),
		newValuesCmd(),
		newEvalCmd(),
	)
	return rootCmd
}

// Execute runs the root command with ctx and logs a failure before
// returning it.
func Execute(ctx context.Context) error {
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		}
		rootCmd.PrintErrln("Error:", err)
	}
	observability.Sync()
	return err
}

// initializeConfig reads the config file, if any, and binds the environment.
// A missing default config file is not an error; a missing explicit one is.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// getConfigFromContext returns the config stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not initialized")
	}
	return cfg, nil
}

// loggerFromContext returns the global logger tagged with the run id.
func loggerFromContext(ctx context.Context) *zap.Logger {
	runID, _ := ctx.Value(runIDKey).(string)
	return observability.ForRun(runID)
}
