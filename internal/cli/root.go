// Package cli wires configuration, logging and the command pipeline
// together and hands control to the terminal UI.
package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitdeck/internal/config"
	"gitdeck/internal/git"
	"gitdeck/internal/logging"
	"gitdeck/internal/pipeline"
	"gitdeck/internal/tui"
)

func newRootCmd() *cobra.Command {
	var (
		repoPath   string
		configPath string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:           "gitdeck",
		Short:         "A terminal front-end for everyday git",
		Long:          "gitdeck drives staging, commits, branches and remotes through a keyboard-first terminal interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logFile != "" {
				cfg.LogFile = logFile
			}

			logger, err := logging.New(cfg.LogFile)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			if repoPath == "" {
				repoPath, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
			}

			return run(cfg, logger, repoPath)
		},
	}

	cmd.Flags().StringVarP(&repoPath, "repo", "r", "", "repository to open (default: current directory)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write diagnostic logs to this file")
	return cmd
}

func run(cfg *config.Config, logger *zap.Logger, repoPath string) error {
	runner := &git.Runner{Binary: cfg.GitBinary, Timeout: cfg.Timeout()}
	detector := git.NewDetector()

	exec := func(req pipeline.Request) (string, string, int) {
		res := runner.Run(context.Background(), req.Dir, req.Args...)
		return res.Stdout, res.Stderr, res.ExitCode
	}
	dispatcher := pipeline.New(exec, cfg.PollInterval(), logger)

	m := tui.New(tui.Options{
		Config:     cfg,
		Logger:     logger,
		Runner:     runner,
		Dispatcher: dispatcher,
		Detector:   detector,
		RepoPath:   repoPath,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	dispatcher.Start(func(r *pipeline.Result) {
		p.Send(tui.CommandResultMsg{Result: r})
	})

	_, err := p.Run()
	dispatcher.Close()
	return err
}

// Execute runs the root command and reports its exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
