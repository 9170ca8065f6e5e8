package fdb

import (
	"context"
	"fmt"
	"os"

	"github.com/martinsuchenak/portfinder/internal/app"
	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/report"
	"github.com/paularlott/cli"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "fdb",
		Usage:       "Dump the forwarding database of a switch",
		Description: "Walk the whole forwarding database port column of one switch and print every learned MAC address with its port",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "switch", Required: true},
		},
		Flags: append(config.GetFlags(),
			&cli.StringFlag{Name: "output", Usage: "Output format (text, json)", DefaultValue: report.FormatText},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := report.New(os.Stdout, cmd.GetString("output"))
			if err != nil {
				return err
			}

			return run(ctx, a, cmd.GetStringArg("switch"), out)
		},
	}
}

func run(ctx context.Context, a *app.App, entry string, out *report.Writer) error {
	agents, err := a.Config.ResolveAgents([]model.Switch{{Address: entry, Enabled: true}})
	if err != nil {
		return err
	}
	if len(agents) != 1 {
		return fmt.Errorf("%q must name exactly one switch", entry)
	}
	agent := agents[0]

	rows, outcome, err := a.Walker().Rows(ctx, agent)
	for _, row := range rows {
		if werr := out.Row(row); werr != nil {
			return werr
		}
	}
	if err != nil {
		log.Error("Forwarding database walk failed", "agent", agent.Address, "state", outcome.State.String(), "rows", len(rows), "error", err)
		return err
	}

	log.Info("Forwarding database walked", "agent", agent.Address, "rows", len(rows), "requests", outcome.Requests)
	return nil
}
