package switches

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/storage"
	"github.com/paularlott/cli"
)

func EnableCommand() *cli.Command {
	return toggleCommand("enable", "Include a switch in lookups", true)
}

func DisableCommand() *cli.Command {
	return toggleCommand("disable", "Skip a switch in lookups without removing it", false)
}

func toggleCommand(name, usage string, enabled bool) *cli.Command {
	return &cli.Command{
		Name:        name,
		Usage:       usage,
		Description: usage + ". The switch is given by ID or address.",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "switch", Required: true},
		},
		Flags: config.GetFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openInventory()
			if err != nil {
				return err
			}
			defer a.Close()

			return setEnabled(a.Store, cmd.GetStringArg("switch"), enabled, os.Stdout)
		},
	}
}

func setEnabled(store storage.Storage, ref string, enabled bool, w io.Writer) error {
	if err := store.SetSwitchEnabled(ref, enabled); err != nil {
		log.Error("Failed to update switch", "switch", ref, "enabled", enabled, "error", err)
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	log.Info("Switch updated", "switch", ref, "enabled", enabled)
	fmt.Fprintf(w, "Switch %s: %s\n", state, ref)
	return nil
}
