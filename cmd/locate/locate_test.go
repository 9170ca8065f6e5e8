package locate

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/martinsuchenak/portfinder/internal/app"
	"github.com/martinsuchenak/portfinder/internal/config"
	"github.com/martinsuchenak/portfinder/internal/finder"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/mac"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/oid"
	"github.com/martinsuchenak/portfinder/internal/report"
	"github.com/martinsuchenak/portfinder/internal/snmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetOutput(io.Discard, "error")
}

// tableDialer serves one port row per agent address from the FDB 1 table.
type tableDialer struct {
	ports map[string]int64
	dials int
}

type tableSession struct {
	row  oid.OID
	port int64
	has  bool
}

func (d *tableDialer) Dial(ctx context.Context, agent model.Agent) (snmp.Session, error) {
	d.dials++
	p, ok := d.ports[agent.Address]
	return &tableSession{row: finder.DefaultTable.Append(170, 187, 204, 221, 238, 255), port: p, has: ok}, nil
}

func (s *tableSession) GetNext(ctx context.Context, req snmp.Request) (snmp.Response, error) {
	if s.has && oid.Compare(s.row, req.OID) > 0 {
		return snmp.Response{RequestID: req.ID, OID: s.row, Numeric: true, Int: s.port}, nil
	}
	return snmp.Response{RequestID: req.ID, OID: oid.MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.3")}, nil
}

func (s *tableSession) Close() error { return nil }

func testApp(d snmp.Dialer, switches ...string) *app.App {
	cfg := &config.Config{Retries: -1, Switches: switches}
	cfg.ApplyDefaults()
	return &app.App{Config: cfg, Dialer: d}
}

func TestRunPrintsOneLinePerSwitch(t *testing.T) {
	d := &tableDialer{ports: map[string]int64{"10.20.31.227": 14}}
	var buf bytes.Buffer
	out, err := report.New(&buf, report.FormatText)
	require.NoError(t, err)

	err = run(context.Background(), testApp(d, "10.20.31.226", "10.20.31.227"), " AA:BB:CC:DD:EE:FF\n", out)
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF is at port: -1 on 10.20.31.226\n"+
		"AA:BB:CC:DD:EE:FF is at port: 14 on 10.20.31.227\n", buf.String())
}

func TestRunNotFound(t *testing.T) {
	d := &tableDialer{}
	var buf bytes.Buffer
	out, _ := report.New(&buf, report.FormatText)

	err := run(context.Background(), testApp(d, "10.20.31.226"), "AA:BB:CC:DD:EE:FF", out)
	require.ErrorIs(t, err, finder.ErrNotFound)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF is at port: -1 on 10.20.31.226\n", buf.String())
}

func TestRunInvalidMAC(t *testing.T) {
	d := &tableDialer{}
	var buf bytes.Buffer
	out, _ := report.New(&buf, report.FormatText)

	err := run(context.Background(), testApp(d, "10.20.31.226"), "AA:BB:CC", out)
	require.ErrorIs(t, err, mac.ErrInvalidAddressFormat)
	assert.Equal(t, 0, d.dials)
	assert.Empty(t, buf.String())
}

func TestRunNoSwitches(t *testing.T) {
	var buf bytes.Buffer
	out, _ := report.New(&buf, report.FormatText)

	err := run(context.Background(), testApp(&tableDialer{}), "AA:BB:CC:DD:EE:FF", out)
	require.ErrorIs(t, err, config.ErrNoSwitches)
}

func TestReadMAC(t *testing.T) {
	var prompted bytes.Buffer
	got, err := readMAC(strings.NewReader("aa:bb:cc:dd:ee:ff\r\nignored\n"), &prompted, true)
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got)
	assert.Equal(t, prompt, prompted.String())

	prompted.Reset()
	got, err = readMAC(strings.NewReader("aa:bb:cc:dd:ee:ff"), &prompted, false)
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got)
	assert.Empty(t, prompted.String())

	_, err = readMAC(strings.NewReader(""), io.Discard, false)
	require.ErrorIs(t, err, mac.ErrInvalidAddressFormat)
}
