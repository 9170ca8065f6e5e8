package switches

import (
	"context"
	"errors"
	"os"

	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/report"
	"github.com/martinsuchenak/portfinder/internal/storage"
	"github.com/paularlott/cli"
)

func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "get",
		Usage:       "Show a switch",
		Description: "Show one inventory switch by ID or address",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "switch", Required: true},
		},
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
			return get(a.Store, cmd.GetStringArg("switch"), out)
		},
	}
}

func get(store storage.Storage, ref string, out *report.Writer) error {
	sw, err := store.GetSwitch(ref)
	if err != nil {
		if errors.Is(err, storage.ErrSwitchNotFound) {
			log.Warn("Switch not found", "switch", ref)
		} else {
			log.Error("Failed to get switch", "switch", ref, "error", err)
		}
		return err
	}
	return out.Switch(*sw)
}
