package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/martinsuchenak/portfinder/cmd/fdb"
	"github.com/martinsuchenak/portfinder/cmd/locate"
	"github.com/martinsuchenak/portfinder/cmd/server"
	"github.com/martinsuchenak/portfinder/cmd/switches"
	"github.com/martinsuchenak/portfinder/internal/finder"
	"github.com/paularlott/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:        "portfinder",
		Version:     version,
		Usage:       "Locate the switch port a MAC address is connected to",
		Description: "Query the SNMP forwarding database of managed switches to find where a device is plugged in",
		Commands: []*cli.Command{
			locate.Command(),
			fdb.Command(),
			switches.Command(),
			server.Command(),
		},
	}

	if err := cmd.Execute(ctx); err != nil {
		// Not found is a normal outcome; the per-switch lines already said so
		if !errors.Is(err, finder.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
