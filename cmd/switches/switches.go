package switches

import (
	"errors"

	"github.com/martinsuchenak/portfinder/internal/app"
	"github.com/paularlott/cli"
)

var errNoInventory = errors.New("--inventory (or PORTFINDER_INVENTORY) is required")

func Command() *cli.Command {
	return &cli.Command{
		Name:        "switches",
		Usage:       "Manage the switch inventory",
		Description: "Add, show, list, enable, disable and remove switches in the SQLite inventory used when no switches are given on the command line",
		Commands: []*cli.Command{
			AddCommand(),
			GetCommand(),
			ListCommand(),
			EnableCommand(),
			DisableCommand(),
			RemoveCommand(),
		},
	}
}

// openInventory loads the app and insists on an inventory being configured
func openInventory() (*app.App, error) {
	a, err := app.Load()
	if err != nil {
		return nil, err
	}
	if a.Store == nil {
		a.Close()
		return nil, errNoInventory
	}
	return a, nil
}
