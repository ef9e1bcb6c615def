// Package cli assembles the exectrlctl command tree: a small Cobra-based
// demo driver that exercises an Authority's surface from the shell (create
// a scope and run a task, broadcast on a channel, print status).
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kaelbrook/exectrl"
)

var configFile string

// YAMLConfig is the on-disk shape loaded by --config; it maps directly onto
// exectrl.EngineConfig.
type YAMLConfig struct {
	Engine struct {
		DefaultWorkers int           `yaml:"default_workers"`
		MaxWorkers     int           `yaml:"max_workers"`
		IdleTimeout    time.Duration `yaml:"idle_timeout"`
	} `yaml:"engine"`
}

func loadConfig(path string) (YAMLConfig, error) {
	var cfg YAMLConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func authorityFromConfig(cfg YAMLConfig) *exectrl.Authority {
	opts := []exectrl.AuthorityOption{}
	if cfg.Engine.DefaultWorkers > 0 {
		opts = append(opts, exectrl.WithDefaultWorkers(cfg.Engine.DefaultWorkers))
	}
	if cfg.Engine.MaxWorkers > 0 {
		opts = append(opts, exectrl.WithMaxWorkers(cfg.Engine.MaxWorkers))
	}
	if cfg.Engine.IdleTimeout > 0 {
		opts = append(opts, exectrl.WithIdleTimeout(cfg.Engine.IdleTimeout))
	}
	return exectrl.NewAuthority(opts...)
}

// BuildCLI assembles the root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "exectrlctl",
		Short:   "exectrlctl drives an exectrl Authority from the shell",
		Version: "0.1.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "engine config file (YAML)")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildBroadcastCommand())
	rootCmd.AddCommand(buildStatusCommand())

	return rootCmd
}

func buildRunCommand() *cobra.Command {
	var scopeID string
	var deferredRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mount a scope and run one Task inside it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			authority := authorityFromConfig(cfg)
			defer authority.Dispose()

			scope, err := authority.CreateScope(exectrl.ScopeConfig{ID: exectrl.ScopeID(scopeID)})
			if err != nil {
				return fmt.Errorf("failed to create scope: %w", err)
			}
			scope.Mount()

			result, err := scope.Run(func(ctx *exectrl.TaskContext) (any, error) {
				return "hello from " + string(ctx.Ref), nil
			}, exectrl.TaskRunOptions{Deferred: deferredRun})
			if err != nil {
				return fmt.Errorf("task failed: %w", err)
			}
			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeID, "scope", "default", "scope id to mount")
	cmd.Flags().BoolVar(&deferredRun, "deferred", false, "schedule the task via a zero-delay timer")
	return cmd
}

func buildBroadcastCommand() *cobra.Command {
	var channel, message string

	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Broadcast a message on a channel and print who received it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			authority := authorityFromConfig(cfg)
			defer authority.Dispose()

			received := 0
			authority.Subscribe(channel, func(data any) {
				received++
				fmt.Printf("listener received: %v\n", data)
			})
			authority.Broadcast(channel, message)
			fmt.Printf("delivered to %d listener(s)\n", received)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "default", "broadcast channel name")
	cmd.Flags().StringVar(&message, "message", "", "payload to broadcast")
	return cmd
}

func buildStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print a freshly constructed Authority's observable metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			authority := authorityFromConfig(cfg)
			defer authority.Dispose()

			fmt.Printf("disposed:     %v\n", authority.IsDisposed())
			fmt.Printf("scope count:  %d\n", authority.ScopeCount())
			fmt.Printf("pool size:    %d\n", authority.WorkerPoolSize())
			fmt.Printf("idle workers: %d\n", authority.IdleWorkerCount())
			fmt.Printf("busy workers: %d\n", authority.BusyWorkerCount())
			return nil
		},
	}
}
