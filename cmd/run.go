package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/trane-project/trane-cli/internal/command"
	"github.com/trane-project/trane-cli/internal/config"
	"github.com/trane-project/trane-cli/internal/library"
	"github.com/trane-project/trane-cli/internal/logging"
	"github.com/trane-project/trane-cli/internal/mantra"
	"github.com/trane-project/trane-cli/internal/render"
	"github.com/trane-project/trane-cli/internal/repl"
	"github.com/trane-project/trane-cli/internal/session"
)

// runShell builds the dependencies and runs the interactive loop.
func runShell(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	miner := mantra.NewMiner(cfg.MantraInterval)
	miner.Start(ctx)
	defer miner.Stop()

	opener := library.NewOpener(library.Config{Logger: log})
	dispatcher := session.NewDispatcher(opener, session.NewState(miner), session.Config{
		Logger:      log,
		ScoresLimit: cfg.ScoresLimit,
	})
	renderer := render.New(render.Options{
		Color:    cfg.Color,
		Markdown: cfg.Markdown == config.MarkdownAuto,
	}.ForOutput(term.IsTerminal(os.Stdout.Fd())))

	reader, err := repl.NewLinerReader(cfg.HistoryFile, cfg.HistorySize)
	if err != nil {
		return fmt.Errorf("initialize line reader: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}()

	fmt.Print(render.Banner(buildInfo(), time.Now()))

	if cfg.Library != "" {
		res, err := dispatcher.Dispatch(ctx, command.OpenLibrary{Path: cfg.Library})
		if err != nil {
			fmt.Print(renderer.Error(err))
		} else {
			fmt.Print(renderer.Result(res))
		}
	}

	log.Info("shell started", "version", version, "library", cfg.Library)
	return repl.New(repl.Config{
		Reader:     reader,
		Out:        os.Stdout,
		Dispatcher: dispatcher,
		Renderer:   renderer,
		Logger:     log,
	}).Run(ctx)
}
