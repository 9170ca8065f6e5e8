// Package snmp is the narrow protocol surface the finder needs: a session that
// can issue one get-next request at a time.
package snmp

import (
	"context"
	"fmt"

	"github.com/gosnmp/gosnmp"
	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/martinsuchenak/portfinder/internal/oid"
)

// Request is a single get-next request. It is built fresh for every iteration
// of a walk and never mutated after.
type Request struct {
	ID  uint32
	OID oid.OID
}

// Next returns the request following r, asking for the OID after o.
func (r Request) Next(o oid.OID) Request {
	return Request{ID: r.ID + 1, OID: o}
}

// Response is the agent's answer to a Request.
type Response struct {
	RequestID   uint32
	ErrorStatus int
	ErrorIndex  int

	OID oid.OID
	// EndOfView is set for endOfMibView, noSuchObject and noSuchInstance.
	EndOfView bool
	Type      string
	Value     any
	Numeric   bool
	Int       int64
}

// Session is an open connection to one agent.
type Session interface {
	GetNext(ctx context.Context, req Request) (Response, error)
	Close() error
}

// Dialer opens sessions to agents.
type Dialer interface {
	Dial(ctx context.Context, agent model.Agent) (Session, error)
}

// Client dials SNMPv2c sessions with gosnmp.
type Client struct {
	version gosnmp.SnmpVersion
}

// NewClient creates a new SNMPv2c client
func NewClient() *Client {
	return &Client{version: gosnmp.Version2c}
}

// Dial opens a UDP session to the agent. UDP is connectionless, so an
// unreachable agent is only detected by the first request timing out.
func (c *Client) Dial(ctx context.Context, agent model.Agent) (Session, error) {
	g := &gosnmp.GoSNMP{
		Target:    agent.Address,
		Port:      agent.Port,
		Transport: "udp",
		Community: agent.Community,
		Version:   c.version,
		Timeout:   agent.Timeout,
		Retries:   agent.Retries,
		MaxOids:   1,
		Context:   ctx,
	}

	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", agent.Endpoint(), err)
	}

	return &session{g: g}, nil
}

type session struct {
	g *gosnmp.GoSNMP
}

func (s *session) GetNext(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	pkt, err := s.g.GetNext([]string{req.OID.String()})
	if err != nil {
		return Response{}, fmt.Errorf("get-next %s: %w", req.OID, err)
	}

	return toResponse(req, pkt)
}

func (s *session) Close() error {
	if s.g.Conn == nil {
		return nil
	}
	return s.g.Conn.Close()
}

// toResponse converts a decoded gosnmp packet into a Response.
func toResponse(req Request, pkt *gosnmp.SnmpPacket) (Response, error) {
	resp := Response{
		RequestID:   req.ID,
		ErrorStatus: int(pkt.Error),
		ErrorIndex:  int(pkt.ErrorIndex),
	}
	if resp.ErrorStatus != 0 {
		return resp, nil
	}
	if len(pkt.Variables) == 0 {
		resp.EndOfView = true
		return resp, nil
	}

	v := pkt.Variables[0]
	o, err := oid.Parse(v.Name)
	if err != nil {
		return Response{}, fmt.Errorf("decoding response name %q: %w", v.Name, err)
	}
	resp.OID = o
	resp.Type = fmt.Sprint(v.Type)
	resp.Value = v.Value

	switch v.Type {
	case gosnmp.EndOfMibView, gosnmp.NoSuchObject, gosnmp.NoSuchInstance:
		resp.EndOfView = true
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.Uinteger32,
		gosnmp.TimeTicks, gosnmp.Counter64:
		resp.Numeric = true
		resp.Int = gosnmp.ToBigInt(v.Value).Int64()
	}

	return resp, nil
}
