// Command arxiv-canonical is the thin CLI wrapper around the register
// core: the backfill command plus a read-only manifest inspector. Every
// other surface (HTTP, classic-format ingest) is an external
// collaborator outside this module's scope.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arxiv/canonical/pkg/cmd"
	"github.com/arxiv/canonical/pkg/cmdhelper"
	"github.com/arxiv/canonical/pkg/commands/backfill"
	"github.com/arxiv/canonical/pkg/commands/describe"
)

func main() {
	app := cli.Command{
		Name:                  "arxiv-canonical",
		Usage:                 "tools for the arXiv canonical announcement record",
		Suggest:               true,
		EnableShellCompletion: true,
		HideVersion:           true,
		HideHelpCommand:       true,
		Commands: []*cli.Command{
			cmd.NewVersionCommand().ToCLI(),
			backfill.New().ToCLI(),
			describe.New().ToCLI(),
		},
		ExitErrHandler: func(_ context.Context, c *cli.Command, err error) {
			cli.HandleExitCoder(err)
			cmdhelper.Fprintf(c.ErrWriter, "Error: %+v\n", err)
			os.Exit(1)
		},
	}
	//nolint:errcheck // already checked in root command ExitErrHandler
	_ = app.Run(context.Background(), os.Args)
}
