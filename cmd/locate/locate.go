package locate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/martinsuchenak/portfinder/internal/app"
	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/finder"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/mac"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/report"
	"github.com/paularlott/cli"
	"golang.org/x/term"
)

const prompt = "Please enter mac address: "

func Command() *cli.Command {
	return &cli.Command{
		Name:        "locate",
		Usage:       "Find the switch port a MAC address is connected to",
		Description: "Walk the forwarding database of every configured switch and print the port the MAC address was learned on. The address is read from stdin when not given as an argument.",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "mac"},
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

			macText := cmd.GetStringArg("mac")
			if macText == "" {
				macText, err = readMAC(os.Stdin, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))
				if err != nil {
					return err
				}
			}

			out, err := report.New(os.Stdout, cmd.GetString("output"))
			if err != nil {
				return err
			}

			return run(ctx, a, macText, out)
		},
	}
}

// run validates the address before resolving switches, so a bad address
// never reaches an agent.
func run(ctx context.Context, a *app.App, macText string, out *report.Writer) error {
	macText = strings.TrimSpace(macText)
	if _, err := mac.Parse(macText); err != nil {
		log.Error("Invalid MAC address", "mac", macText, "error", err)
		return err
	}

	agents, err := a.Agents()
	if err != nil {
		log.Error("Failed to resolve switches", "error", err)
		return err
	}

	results, err := a.Fleet().Locate(ctx, macText, agents, func(r model.Result) {
		if err := out.Result(r); err != nil {
			log.Error("Failed to write result", "agent", r.Agent, "error", err)
		}
	})
	if err != nil {
		return err
	}

	if !finder.AnyFound(results) {
		return finder.ErrNotFound
	}
	return nil
}

// readMAC reads one line from r, prompting on w when interactive
func readMAC(r io.Reader, w io.Writer, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(w, prompt)
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: no address on stdin", mac.ErrInvalidAddressFormat)
		}
		return "", fmt.Errorf("reading MAC address: %w", err)
	}
	return strings.TrimSpace(line), nil
}
