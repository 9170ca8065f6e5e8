// Package app wires configuration, inventory and the SNMP client together for
// the commands.
package app

import (
	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/finder"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/oid"
	"github.com/martinsuchenak/portfinder/internal/snmp"
	"github.com/martinsuchenak/portfinder/internal/storage"
)

// fdbPortColumn is dot1qTpFdbPort; rows are indexed by FDB id then MAC.
var fdbPortColumn = oid.MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.2")

type App struct {
	Config *config.Config
	Store  storage.Storage
	Dialer snmp.Dialer
}

// Load reads the configuration from flags and files, configures logging and
// opens the inventory if one is configured.
func Load() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.Configure(cfg.LogLevel, cfg.LogFormat)

	a := &App{Config: cfg, Dialer: snmp.NewClient()}
	if cfg.Inventory != "" {
		store, err := storage.NewStorage(cfg.Inventory)
		if err != nil {
			log.Error("Failed to open inventory", "path", cfg.Inventory, "error", err)
			return nil, err
		}
		log.Debug("Inventory opened", "path", cfg.Inventory)
		a.Store = store
	}
	return a, nil
}

// Close releases the inventory
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}

// Agents resolves the configured agent list
func (a *App) Agents() ([]model.Agent, error) {
	var inv config.Inventory
	if a.Store != nil {
		inv = a.Store
	}
	return a.Config.Agents(inv)
}

// TableRoot is the FDB port column for the configured filtering database
func (a *App) TableRoot() oid.OID {
	return TableFor(a.Config.FDBID)
}

// TableFor returns the port column root for a filtering database id
func TableFor(fdbID int) oid.OID {
	return fdbPortColumn.Append(uint32(fdbID))
}

func (a *App) Walker() *finder.Walker {
	return finder.NewWalker(a.Dialer, a.TableRoot(), a.Config.MaxRows)
}

func (a *App) Fleet() *finder.Fleet {
	return finder.NewFleet(a.Walker(), a.Config.Concurrency)
}
