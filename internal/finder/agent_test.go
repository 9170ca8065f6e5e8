package finder

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/oid"
	"github.com/martinsuchenak/portfinder/internal/snmp"
)

func init() {
	log.SetOutput(io.Discard, "debug")
}

// nextColumn is the first OID after the port column, dot1qTpFdbStatus.
var nextColumn = oid.MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.3.1.0.0.0.0.0.1")

type fakeRow struct {
	oid   oid.OID
	value int64
	text  bool
}

// fakeAgent is an in-memory agent answering get-next from a sorted table.
type fakeAgent struct {
	mu   sync.Mutex
	rows []fakeRow

	// failAt makes request number failAt (1-based) return errorStatus.
	failAt      int
	errorStatus int
	silent      bool
	dialErr     error
	endOfView   bool
	stuck       bool
	endless     bool

	requests   []snmp.Request
	dials      int
	closes     int
	blockUntil <-chan struct{}
}

func newFakeAgent(rows ...fakeRow) *fakeAgent {
	sort.Slice(rows, func(i, j int) bool { return oid.Compare(rows[i].oid, rows[j].oid) < 0 })
	return &fakeAgent{rows: rows}
}

func portRow(value int64, suffix ...uint32) fakeRow {
	return fakeRow{oid: DefaultTable.Append(suffix...), value: value}
}

func (a *fakeAgent) Dial(ctx context.Context, agent model.Agent) (snmp.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dialErr != nil {
		return nil, a.dialErr
	}
	a.dials++
	return a, nil
}

func (a *fakeAgent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closes++
	return nil
}

func (a *fakeAgent) GetNext(ctx context.Context, req snmp.Request) (snmp.Response, error) {
	if a.blockUntil != nil {
		select {
		case <-a.blockUntil:
		case <-ctx.Done():
			return snmp.Response{}, ctx.Err()
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)

	if a.silent {
		return snmp.Response{}, errors.New("request timeout (after 1 retries)")
	}
	if a.failAt > 0 && len(a.requests) == a.failAt {
		return snmp.Response{RequestID: req.ID, ErrorStatus: a.errorStatus, ErrorIndex: 1}, nil
	}
	if a.stuck {
		return snmp.Response{RequestID: req.ID, OID: DefaultTable.Append(0, 0, 0, 0, 0, 0, 1), Numeric: true, Int: 1}, nil
	}

	if a.endless {
		return snmp.Response{RequestID: req.ID, OID: req.OID.Append(1), Numeric: true, Int: 1}, nil
	}

	for _, r := range a.rows {
		if oid.Compare(r.oid, req.OID) > 0 {
			resp := snmp.Response{RequestID: req.ID, OID: r.oid}
			if r.text {
				resp.Type = "OctetString"
			} else {
				resp.Type = "Integer"
				resp.Numeric = true
				resp.Int = r.value
			}
			return resp, nil
		}
	}

	if a.endOfView {
		return snmp.Response{RequestID: req.ID, OID: req.OID, EndOfView: true}, nil
	}
	return snmp.Response{RequestID: req.ID, OID: nextColumn, Numeric: true, Int: 3}, nil
}

// fleetDialer routes dials to a fake agent by address.
type fleetDialer map[string]*fakeAgent

func (d fleetDialer) Dial(ctx context.Context, agent model.Agent) (snmp.Session, error) {
	a, ok := d[agent.Address]
	if !ok {
		return nil, errors.New("no route to host")
	}
	return a.Dial(ctx, agent)
}
