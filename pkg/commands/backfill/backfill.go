package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/events"
	"github.com/arxiv/canonical/pkg/canon/register"
	"github.com/arxiv/canonical/pkg/canon/roles"
	"github.com/arxiv/canonical/pkg/canon/store"
	cmdpkg "github.com/arxiv/canonical/pkg/cmd"
	"github.com/arxiv/canonical/pkg/cmdhelper"
	"github.com/arxiv/canonical/pkg/config"
	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/xlog"
)

// Command is the single "arxiv-canonical backfill" command: it streams
// pre-parsed announcement events into a Primary role, logging a
// per-event outcome and a resumable cursor. Event
// parsing from the classic `.abs`/`daily.log` tree is the out-of-scope
// ingest adapter's job; this command only consumes its JSON Lines
// output.
type Command struct {
	cfg   config.Backfill
	until string
	log   *xlog.Logger
}

// New returns a Command with default configuration.
func New() *Command {
	return &Command{log: xlog.New(xlog.NewConfig())}
}

// ToCLI transforms the command into a *cli.Command.
func (c *Command) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "backfill",
		Usage: "Stream pre-parsed announcement events into the canonical record",
		UsageText: `arxiv-canonical backfill [OPTIONS] EVENTS_PATH RECORD_PATH

# Replay a JSON-Lines event log into a record rooted at ./record
$ arxiv-canonical backfill events.jsonl ./record
`,
		ArgsUsage: "EVENTS_PATH RECORD_PATH",
		Flags:     c.Flags(),
		Before:    cmdpkg.AsBeforeFunc(cmdpkg.ExactArgs(2)),
		Action:    c.Run,
	}
}

// Flags defines the flags this command accepts.
func (c *Command) Flags() []cli.Flag {
	sourceFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "classic-path",
			Usage:       "root of the classic data tree used to resolve source/render content",
			Destination: &c.cfg.Sources.ClassicPath,
		},
		&cli.StringFlag{
			Name:        "trusted-host",
			Usage:       "host the HTTPS source is permitted to fetch content from",
			Destination: &c.cfg.Sources.TrustedHost,
		},
	}
	runFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "cache-path",
			Usage:       "directory for the resumable cursor file",
			Value:       ".arxiv-canonical-cache",
			Destination: &c.cfg.CachePath,
		},
		&cli.BoolFlag{
			Name:        "skip-on-error",
			Usage:       "log and continue past an event that fails instead of halting the run",
			Destination: &c.cfg.SkipOnError,
		},
		&cli.BoolFlag{
			Name:        "reset",
			Usage:       "discard any existing cursor and replay from the first event",
			Destination: &c.cfg.Reset,
		},
		&cli.StringFlag{
			Name:        "until",
			Usage:       "stop before any event dated after this YYYY-MM-DD date",
			Destination: &c.until,
		},
	}
	cmdhelper.SetFlagsCategory("Content sources", sourceFlags...)
	cmdhelper.SetFlagsCategory("Run control", runFlags...)
	return append(sourceFlags, runFlags...)
}

// Run executes the backfill command.
func (c *Command) Run(ctx context.Context, cmd *cli.Command) error {
	c.cfg.EventsPath = cmd.Args().Get(0)
	c.cfg.Storage.RecordPath = cmd.Args().Get(1)
	if c.until != "" {
		until, err := time.Parse(time.DateOnly, c.until)
		if err != nil {
			return fmt.Errorf("parsing --until: %w", err)
		}
		c.cfg.Until = until
	}

	cur := newCursor(c.cfg.CachePath)
	if c.cfg.Reset {
		if err := c.confirmReset(cmd); err != nil {
			return err
		}
		if err := cur.Reset(); err != nil {
			return err
		}
	}
	startOffset, err := cur.Load()
	if err != nil {
		return err
	}

	storage := store.NewFileSystem(afero.NewOsFs(), c.cfg.Storage.RecordPath)
	sources := []store.Source{storage}
	if c.cfg.Sources.ClassicPath != "" {
		sources = append(sources, store.NewFileSystem(afero.NewOsFs(), c.cfg.Sources.ClassicPath))
	}
	if c.cfg.Sources.TrustedHost != "" {
		sources = append(sources, store.NewHTTP(c.cfg.Sources.TrustedHost, nil))
	}

	reg, err := register.Load(ctx, storage, sources)
	if err != nil {
		return errdefs.NewE(errdefs.ErrUnavailable, err)
	}
	bus := events.NewBus()
	primary := roles.NewPrimary(reg, bus)

	f, err := os.Open(c.cfg.EventsPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if startOffset > 0 {
		if _, err := f.Seek(startOffset, io.SeekStart); err != nil {
			return fmt.Errorf("resuming from offset %d: %w", startOffset, err)
		}
	}

	reader := newOffsetReader(f)
	var applied, failed int
	for {
		line, offsetAfter, ok, err := reader.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		var ev domain.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return fmt.Errorf("decoding event at offset %d: %w", startOffset+offsetAfter, err)
		}
		if !c.cfg.Until.IsZero() && ev.EventDate.After(c.cfg.Until) {
			c.log.InfoContext(ctx, "stopping before --until boundary", "event_date", ev.EventDate)
			break
		}

		applyErr := primary.AddEvents(ctx, ev)
		if applyErr != nil {
			failed++
			c.log.ErrorContext(ctx, "event failed", "identifier", ev.Identifier, "event_type", ev.EventType, slog.Any("error", applyErr))
			if !c.cfg.SkipOnError {
				return applyErr
			}
			continue
		}
		applied++
		c.log.InfoContext(ctx, "event applied", "identifier", ev.Identifier, "event_type", ev.EventType)

		if err := cur.Save(startOffset + offsetAfter); err != nil {
			return err
		}
	}

	c.log.InfoContext(ctx, "backfill complete", "applied", applied, "failed", failed)
	if failed > 0 {
		return errdefs.Newf(errdefs.ErrUnavailable, "%d event(s) failed during backfill", failed)
	}
	return nil
}

func (c *Command) confirmReset(cmd *cli.Command) error {
	prompt := promptui.Prompt{
		Label:     "This discards the saved cursor and replays from the start. Continue",
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("reset cancelled: %w", err)
	}
	cmdhelper.Fprintf(cmd.Writer, "resetting cursor\n")
	return nil
}
