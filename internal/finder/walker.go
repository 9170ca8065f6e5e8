package finder

import (
	"context"
	"fmt"

	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/mac"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/oid"
	"github.com/martinsuchenak/portfinder/internal/snmp"
)

// DefaultTable is dot1qTpFdbPort for filtering database 1 (Q-BRIDGE-MIB).
var DefaultTable = oid.MustParse(".1.3.6.1.2.1.17.7.1.2.2.1.2.1")

// DefaultMaxRows caps a single walk against agents that never leave the table.
const DefaultMaxRows = 100000

// State is where a walk is in its lifecycle
type State int

const (
	Probing State = iota
	RowReceived
	OutOfSubtree
	Matched
	AgentError
	NoResponse
	BoundExceeded
)

func (s State) String() string {
	switch s {
	case Probing:
		return "probing"
	case RowReceived:
		return "row-received"
	case OutOfSubtree:
		return "out-of-subtree"
	case Matched:
		return "matched"
	case AgentError:
		return "agent-error"
	case NoResponse:
		return "no-response"
	case BoundExceeded:
		return "bound-exceeded"
	default:
		return "unknown"
	}
}

// Outcome describes how a walk ended
type Outcome struct {
	State    State
	Port     int
	Requests int
	Rows     int
}

// Walker walks the forwarding database table of a single agent
type Walker struct {
	dialer  snmp.Dialer
	root    oid.OID
	maxRows int
}

// NewWalker creates a walker over the table rooted at root
func NewWalker(dialer snmp.Dialer, root oid.OID, maxRows int) *Walker {
	if len(root) == 0 {
		root = DefaultTable
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Walker{dialer: dialer, root: root, maxRows: maxRows}
}

// Root returns the table root being walked
func (w *Walker) Root() oid.OID {
	return w.root
}

// Find walks the agent's table until it reaches the row keyed by suffix. The
// first matching row wins. A walk that leaves the table without a match ends
// in OutOfSubtree with a nil error.
func (w *Walker) Find(ctx context.Context, agent model.Agent, suffix mac.RowSuffix) (Outcome, error) {
	key := suffix.OID()
	port := model.NotFoundPort

	out, err := w.walk(ctx, agent, func(resp snmp.Response) (bool, error) {
		if !resp.OID.HasSuffix(key) {
			return false, nil
		}
		if !resp.Numeric {
			return true, fmt.Errorf("%w: %s is %s", ErrUnexpectedValue, resp.OID, resp.Type)
		}
		port = int(resp.Int)
		return true, nil
	})
	out.Port = port
	return out, err
}

// Rows walks the whole table and returns every row in agent order.
func (w *Walker) Rows(ctx context.Context, agent model.Agent) ([]model.Row, Outcome, error) {
	var rows []model.Row

	out, err := w.walk(ctx, agent, func(resp snmp.Response) (bool, error) {
		row := model.Row{OID: resp.OID.String(), Port: model.NotFoundPort}
		if rs, ok := mac.FromOID(resp.OID); ok {
			row.MAC = rs.MAC()
		}
		if resp.Numeric {
			row.Port = int(resp.Int)
		}
		rows = append(rows, row)
		return false, nil
	})
	return rows, out, err
}

// walk runs the get-next loop. visit is called for every row inside the table
// and stops the walk by returning true.
func (w *Walker) walk(ctx context.Context, agent model.Agent, visit func(snmp.Response) (bool, error)) (Outcome, error) {
	out := Outcome{State: Probing, Port: model.NotFoundPort}

	sess, err := w.dialer.Dial(ctx, agent)
	if err != nil {
		out.State = NoResponse
		return out, fmt.Errorf("%w: %v", ErrAgentUnreachable, err)
	}
	defer sess.Close()

	cursor := w.root
	req := snmp.Request{ID: 1, OID: cursor}

	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		log.Debug("Sending get-next", "agent", agent.Address, "request_id", req.ID, "oid", req.OID.String())
		out.Requests++

		resp, err := sess.GetNext(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			out.State = NoResponse
			return out, fmt.Errorf("%w: %s: %v", ErrAgentUnreachable, agent.Endpoint(), err)
		}

		if resp.ErrorStatus != 0 {
			out.State = AgentError
			return out, &ProtocolError{Status: resp.ErrorStatus, Index: resp.ErrorIndex}
		}

		if resp.EndOfView || !w.root.IsRootOf(resp.OID) {
			out.State = OutOfSubtree
			return out, nil
		}

		if oid.Compare(resp.OID, cursor) <= 0 {
			out.State = BoundExceeded
			return out, fmt.Errorf("%w: %s did not advance past %s", ErrWalkBoundExceeded, resp.OID, cursor)
		}

		out.State = RowReceived
		out.Rows++
		if out.Rows > w.maxRows {
			out.State = BoundExceeded
			return out, fmt.Errorf("%w: more than %d rows under %s", ErrWalkBoundExceeded, w.maxRows, w.root)
		}

		cursor = resp.OID
		stop, err := visit(resp)
		if err != nil {
			out.State = AgentError
			return out, err
		}
		if stop {
			out.State = Matched
			return out, nil
		}

		req = req.Next(cursor)
	}
}
