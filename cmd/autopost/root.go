package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"autoposter/internal/config"
	"autoposter/internal/logging"
)

var Version = "dev"

type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "autopost",
		Short:   "Publish text, images and videos to a Facebook page",
		Version: Version,
		Long: `autopost publishes posts to a Facebook page through the Graph API.
Images and videos are picked from the asset directories in rotation, from the
selection file, or given on the command line. Captions can be generated.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newTextCmd(opts),
		newImageCmd(opts),
		newVideoCmd(opts),
		newSelectedCmd(opts),
		newRotateCmd(opts),
		newGenerateCmd(opts),
	)

	return root
}

// load reads the config file, falling back to defaults and the environment
// when the file does not exist.
func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// start loads the config and wires the application. Logs go to stderr so
// stdout carries only results.
func (o *options) start(cmd *cobra.Command) (*app, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)
	return newApp(cmd.Context(), cfg, logger)
}
