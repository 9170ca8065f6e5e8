// Package report renders lookup results for standard output.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/martinsuchenak/portfinder/internal/model"
)

// Formats accepted by New
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Writer prints results one per line
type Writer struct {
	w      io.Writer
	format string
	enc    *json.Encoder
}

// New returns a writer for format, or an error for an unknown format
func New(w io.Writer, format string) (*Writer, error) {
	switch format {
	case "", FormatText:
		return &Writer{w: w, format: FormatText}, nil
	case FormatJSON:
		return &Writer{w: w, format: FormatJSON, enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

// Result writes one agent result. Text lines carry the input MAC, the port
// (-1 when not found) and the agent address.
func (rw *Writer) Result(r model.Result) error {
	if rw.format == FormatJSON {
		return rw.enc.Encode(r)
	}
	_, err := fmt.Fprintf(rw.w, "%s is at port: %d on %s\n", r.MAC, r.Port, r.Agent)
	return err
}

// Row writes one forwarding database entry
func (rw *Writer) Row(row model.Row) error {
	if rw.format == FormatJSON {
		return rw.enc.Encode(row)
	}
	mac := row.MAC
	if mac == "" {
		mac = row.OID
	}
	_, err := fmt.Fprintf(rw.w, "%s\t%d\n", mac, row.Port)
	return err
}

// Switch writes one inventory entry
func (rw *Writer) Switch(sw model.Switch) error {
	if rw.format == FormatJSON {
		return rw.enc.Encode(sw)
	}
	state := "enabled"
	if !sw.Enabled {
		state = "disabled"
	}
	port := "-"
	if sw.Port != 0 {
		port = fmt.Sprint(sw.Port)
	}
	_, err := fmt.Fprintf(rw.w, "%s\t%s\t%s\t%s\t%s\n", sw.ID, sw.Address, port, sw.Name, state)
	return err
}
