package model

// NotFoundPort is reported when an agent has no row for the address or failed
const NotFoundPort = -1

// Result is the outcome of one agent walk
type Result struct {
	MAC   string `json:"mac"`
	Agent string `json:"agent"`
	Port  int    `json:"port"`
	Found bool   `json:"found"`
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// NewResult builds a result, folding a walk error into the not-found sentinel
func NewResult(mac, agent string, port int, found bool, err error) Result {
	r := Result{MAC: mac, Agent: agent, Port: port, Found: found, Err: err}
	if err != nil || !found {
		r.Port = NotFoundPort
		r.Found = false
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Row is one forwarding database entry
type Row struct {
	MAC  string `json:"mac"`
	OID  string `json:"oid"`
	Port int    `json:"port"`
}
