package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliasvillacis/vaya"
	"github.com/eliasvillacis/vaya/internal/config"
	"github.com/eliasvillacis/vaya/internal/logging"
	"github.com/eliasvillacis/vaya/pkg/adapters/file"
	"github.com/eliasvillacis/vaya/pkg/adapters/memory"
	"github.com/eliasvillacis/vaya/pkg/adapters/redis"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "vaya",
	Short: "Vaya is a conversational travel assistant",
	Long:  `Vaya plans and answers travel questions: weather, directions, and nearby places, with session memory across turns.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (YAML)")
	rootCmd.PersistentFlags().String("store", "", "Session store kind: memory, file, or redis (overrides config)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

// loadConfig reads the config file named by --config, falling back to
// defaults when the flag is unset, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		cfg.Store.Kind = kind
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	if cfg.LogJSON {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// newStore builds the session store the config asks for.
func newStore(cfg config.Config) (ports.MemoryStore, error) {
	switch cfg.Store.Kind {
	case "memory":
		return memory.NewStore(), nil
	case "file":
		return file.New(cfg.Store.Dir), nil
	case "redis":
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		return redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

// newAssistant wires an Assistant from the resolved config.
func newAssistant(cfg config.Config, store ports.MemoryStore, logger *slog.Logger) *vaya.Assistant {
	return vaya.New(
		vaya.WithStore(store),
		vaya.WithLogger(logger),
		vaya.WithMaxSteps(cfg.Runtime.MaxSteps),
		vaya.WithMaxIterations(cfg.Runtime.MaxIterations),
		vaya.WithUnits(cfg.Units),
	)
}
