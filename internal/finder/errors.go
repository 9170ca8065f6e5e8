package finder

import (
	"errors"
	"fmt"
)

var (
	// ErrAgentUnreachable means no response arrived within the timeout and retry budget.
	ErrAgentUnreachable = errors.New("no response received from SNMP agent")
	// ErrWalkBoundExceeded means the agent did not terminate the table or stopped advancing.
	ErrWalkBoundExceeded = errors.New("walk bound exceeded")
	// ErrUnexpectedValue means the matched row did not carry an integer port.
	ErrUnexpectedValue = errors.New("unexpected port value")
	// ErrNotFound means no agent in the fleet had a row for the address.
	ErrNotFound = errors.New("MAC address not found on any switch")
)

// ProtocolError is a non-zero error status returned by the agent.
type ProtocolError struct {
	Status int
	Index  int
}

var errorStatusNames = map[int]string{
	1:  "tooBig",
	2:  "noSuchName",
	3:  "badValue",
	4:  "readOnly",
	5:  "genErr",
	6:  "noAccess",
	16: "authorizationError",
}

func (e *ProtocolError) Error() string {
	name, ok := errorStatusNames[e.Status]
	if !ok {
		name = "unknown"
	}
	return fmt.Sprintf("error in SNMP reply: error %d (%s) index %d", e.Status, name, e.Index)
}
