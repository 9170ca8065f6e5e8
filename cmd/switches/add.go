package switches

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/storage"
	"github.com/paularlott/cli"
)

func AddCommand() *cli.Command {
	return &cli.Command{
		Name:        "add",
		Usage:       "Add a switch",
		Description: "Append a switch (address, host:port or IPv4 CIDR block) to the end of the query order",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "address", Required: true},
		},
		Flags: append(config.GetFlags(),
			&cli.StringFlag{Name: "name", Usage: "Switch name"},
			&cli.StringFlag{Name: "description", Usage: "Switch description"},
			&cli.IntFlag{Name: "snmp-port", Usage: "SNMP port for this switch only"},
			&cli.StringFlag{Name: "switch-community", Usage: "SNMP community for this switch only"},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openInventory()
			if err != nil {
				return err
			}
			defer a.Close()

			sw := &model.Switch{
				Name:        cmd.GetString("name"),
				Address:     cmd.GetStringArg("address"),
				Port:        cmd.GetInt("snmp-port"),
				Community:   cmd.GetString("switch-community"),
				Description: cmd.GetString("description"),
				Enabled:     true,
			}
			return add(a.Config, a.Store, sw, os.Stdout)
		},
	}
}

func add(cfg *config.Config, store storage.Storage, sw *model.Switch, w io.Writer) error {
	// Reject entries that would fail at lookup time
	if _, err := cfg.ResolveAgents([]model.Switch{*sw}); err != nil {
		return err
	}
	if sw.Port < 0 || sw.Port > 65535 {
		return fmt.Errorf("snmp-port %d out of range", sw.Port)
	}

	if err := store.CreateSwitch(sw); err != nil {
		log.Error("Failed to add switch", "address", sw.Address, "error", err)
		return err
	}

	log.Info("Switch added", "address", sw.Address, "id", sw.ID, "position", sw.Position)
	fmt.Fprintf(w, "Switch added: %s (ID: %s)\n", sw.Address, sw.ID)
	return nil
}
