package model

import (
	"encoding/json"
	"net"
	"strconv"
	"time"
)

// Agent is one switch to query over SNMP
type Agent struct {
	Address   string        `json:"address" yaml:"address"`
	Port      uint16        `json:"port" yaml:"port"`
	Community string        `json:"-" yaml:"community"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	Retries   int           `json:"retries" yaml:"retries"`
}

// Endpoint returns the host:port the agent is reached on
func (a Agent) Endpoint() string {
	return net.JoinHostPort(a.Address, strconv.Itoa(int(a.Port)))
}

func (a Agent) String() string {
	return a.Address
}

// MarshalJSON renders the timeout as a duration string such as "2s"
func (a Agent) MarshalJSON() ([]byte, error) {
	type agent Agent
	return json.Marshal(struct {
		agent
		Timeout string `json:"timeout"`
	}{agent(a), a.Timeout.String()})
}
