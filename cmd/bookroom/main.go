// Command bookroom opens the book scene, or presents page turns to remote
// viewers.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leterax/bookroom/internal/logging"
	"github.com/leterax/bookroom/pkg/config"
)

func init() {
	// OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

type rootFlags struct {
	configPath string
	profile    string
	remoteAddr string
	logLevel   string
}

// load reads the configuration and applies command line overrides.
func (f *rootFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.profile != "" {
		cfg.Book.Profile = f.profile
	}
	if f.remoteAddr != "" {
		cfg.Remote.Addr = f.remoteAddr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.SetLogger(logging.New(cfg.Log.Level, os.Stderr))
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "bookroom",
		Short:         "Interactive 3D photo book",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewer(cmd.Context(), flags)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "TOML configuration file (reloaded on change)")
	pf.StringVar(&flags.profile, "profile", "", "turn profile to use")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	root.Flags().StringVar(&flags.remoteAddr, "remote", "", "presenter address to follow")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the book scene (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewer(cmd.Context(), flags)
		},
	}
	runCmd.Flags().StringVar(&flags.remoteAddr, "remote", "", "presenter address to follow")

	root.AddCommand(runCmd, newProfilesCommand(flags), newConfigCommand(flags), newPresentCommand(flags))
	return root
}

func newProfilesCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available turn profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return printProfiles(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "bookroom:", err)
		os.Exit(1)
	}
}
