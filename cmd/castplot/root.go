package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/castplot/internal/logging"
	"github.com/cognicore/castplot/pkg/castplot/config"
)

// set at build time with -ldflags "-X main.version=..."
var version = "dev"

const defaultConfigPath = "castplot.yaml"

// app holds state shared by every subcommand.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	log  *zap.SugaredLogger
	undo func()
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "castplot",
		Short: "Plot how long the sentences mentioning each character are",
		Long: `castplot downloads a book once, splits it into sentences, tags the
sentences that mention each configured character and plots the word
counts per character as violins.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "config file (defaults apply when absent)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newRunCommand(a),
		newFetchCommand(a),
		newStatsCommand(a),
		newRunsCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

// setup installs the process logger unless one was injected.
func (a *app) setup() error {
	if a.log != nil {
		return nil
	}
	undo, err := logging.Install(a.verbose)
	if err != nil {
		return err
	}
	a.undo = undo
	a.log = zap.S()
	return nil
}

func (a *app) logger() *zap.SugaredLogger {
	if a.log != nil {
		return a.log
	}
	if l, err := logging.New(a.verbose); err == nil {
		a.log = l.Sugar()
	} else {
		a.log = zap.NewNop().Sugar()
	}
	return a.log
}

func (a *app) close() {
	if a.undo != nil {
		a.undo()
		a.undo = nil
	}
}

func (a *app) loadConfig() (*config.Config, error) {
	envFile := a.envFile
	if envFile == "" {
		envFile = ".env"
	}
	l := config.Loader{ConfigPath: a.configPath, EnvFile: envFile}
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	a.logger().Debugf("config loaded from %s", a.configPath)
	return cfg, nil
}
