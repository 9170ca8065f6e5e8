package switches

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/report"
	"github.com/martinsuchenak/portfinder/internal/storage"
	"github.com/paularlott/cli"
)

func ListCommand() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List switches",
		Description: "List inventory switches in query order",
		Flags: append(config.GetFlags(),
			&cli.StringFlag{Name: "output", Usage: "Output format (text, json)", DefaultValue: report.FormatText},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openInventory()
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := report.New(os.Stdout, cmd.GetString("output"))
			if err != nil {
				return err
			}
			return list(a.Store, out, os.Stdout)
		},
	}
}

func list(store storage.Storage, out *report.Writer, w io.Writer) error {
	switches, err := store.ListSwitches()
	if err != nil {
		log.Error("Failed to list switches", "error", err)
		return err
	}

	if len(switches) == 0 {
		fmt.Fprintln(w, "No switches found")
		return nil
	}
	for _, sw := range switches {
		if err := out.Switch(sw); err != nil {
			return err
		}
	}
	log.Debug("Listed switches", "count", len(switches))
	return nil
}
