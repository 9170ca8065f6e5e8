// Package oid models SNMP object identifiers as plain integer sequences so the
// walk logic does not depend on any protocol library's OID representation.
package oid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOID is returned when a dotted string cannot be parsed.
var ErrInvalidOID = errors.New("invalid oid")

// OID is an ordered sequence of sub-identifiers.
type OID []uint32

// Parse parses a dotted OID such as ".1.3.6.1.2.1" or "1.3.6.1.2.1".
func Parse(s string) (OID, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidOID)
	}

	parts := strings.Split(s, ".")
	o := make(OID, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidOID, s, err)
		}
		o = append(o, uint32(n))
	}
	return o, nil
}

// MustParse is Parse for package-level constants.
func MustParse(s string) OID {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// String renders the OID with a leading dot, the form gosnmp uses for names.
func (o OID) String() string {
	var b strings.Builder
	for _, n := range o {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(n), 10))
	}
	return b.String()
}

// Append returns a new OID with the given sub-identifiers appended. The
// receiver is never modified.
func (o OID) Append(tail ...uint32) OID {
	out := make(OID, 0, len(o)+len(tail))
	out = append(out, o...)
	return append(out, tail...)
}

// IsRootOf reports whether o is a strict prefix of other.
func (o OID) IsRootOf(other OID) bool {
	if len(other) <= len(o) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// Tail returns the last n sub-identifiers, or nil if o is shorter than n.
func (o OID) Tail(n int) OID {
	if n < 0 || len(o) < n {
		return nil
	}
	return o[len(o)-n:]
}

// HasSuffix reports whether o ends with suffix.
func (o OID) HasSuffix(suffix OID) bool {
	t := o.Tail(len(suffix))
	if t == nil {
		return false
	}
	return t.Equal(suffix)
}

// Equal reports whether both OIDs have the same sub-identifiers.
func (o OID) Equal(other OID) bool {
	return Compare(o, other) == 0
}

// Compare orders OIDs lexicographically over their sub-identifiers, the order
// agents use to answer get-next. A proper prefix sorts first.
func Compare(a, b OID) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
