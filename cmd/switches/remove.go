package switches

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/storage"
	"github.com/paularlott/cli"
)

func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:        "remove",
		Usage:       "Remove a switch",
		Description: "Remove a switch from the inventory by ID or address",
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

			return remove(a.Store, cmd.GetStringArg("switch"), os.Stdout)
		},
	}
}

func remove(store storage.Storage, ref string, w io.Writer) error {
	if err := store.DeleteSwitch(ref); err != nil {
		if errors.Is(err, storage.ErrSwitchNotFound) {
			log.Warn("Switch not found", "switch", ref)
		} else {
			log.Error("Failed to remove switch", "switch", ref, "error", err)
		}
		return err
	}

	log.Info("Switch removed", "switch", ref)
	fmt.Fprintf(w, "Switch removed: %s\n", ref)
	return nil
}
