package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxfinder/cmd/env"
	"github.com/sig-0/fxfinder/jobs"
	"github.com/sig-0/fxfinder/server"
	"github.com/sig-0/fxfinder/server/config"
	"github.com/sig-0/fxfinder/storage/memory"
	"github.com/sig-0/fxfinder/tasks"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath string
	logFile    string
	logLevel   string
}

// NewServeCmd creates the serve command
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the fxfinder backend, keeping job statuses in memory",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.logFile,
		"log-file",
		"",
		"the path to the rotated log file, if any (defaults to stdout)",
	)

	fs.StringVar(
		&c.logLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)
}

func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.config = serverCfg
	}

	logger, closeLog, err := newLogger(c.logFile, c.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	sources, err := defaultSources()
	if err != nil {
		return fmt.Errorf("unable to register sources, %w", err)
	}

	// Collaborators without credentials are left out,
	// and the jobs that need them fail
	collab := newCollaborators(runCtx, readCredentials(), logger)

	taskOpts := []tasks.Option{
		tasks.WithLogger(logger),
		tasks.WithTopN(c.config.PlacesConfig.TopN),
	}

	if pairer := collab.pairer(c.config.PlacesConfig.Language, c.config.PlacesConfig.Radius); pairer != nil {
		taskOpts = append(taskOpts, tasks.WithPairer(pairer))
	}

	if collab.forecaster != nil {
		taskOpts = append(taskOpts, tasks.WithForecaster(collab.forecaster))
	}

	if collab.news != nil {
		taskOpts = append(taskOpts, tasks.WithNewsSearcher(collab.news))
	}

	orchestrator := jobs.New(
		memory.NewStorage(),
		jobs.WithLogger(logger),
		jobs.WithResultTTL(c.config.JobsConfig.ResultTTL),
		jobs.WithSweepSpec(c.config.JobsConfig.SweepSpec),
		jobs.WithJobTimeout(c.config.JobsConfig.Timeout),
	)

	s, err := server.New(
		orchestrator,
		tasks.New(sources, taskOpts...),
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return orchestrator.Start(gCtx)
	})

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
