// Package mac converts textual MAC addresses into the numeric row suffix used
// to index the bridge forwarding database.
package mac

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/martinsuchenak/portfinder/internal/oid"
)

// ErrInvalidAddressFormat is returned for anything that is not six
// colon-separated hexadecimal octets.
var ErrInvalidAddressFormat = errors.New("invalid MAC: use format \"AA:BB:CC:DD:EE:FF\"")

// RowSuffix is a MAC address as six decimal octets, the trailing component of
// an FDB row OID.
type RowSuffix [6]uint8

// Parse validates s and returns its row suffix.
func Parse(s string) (RowSuffix, error) {
	var rs RowSuffix

	s = strings.TrimSpace(s)
	if s == "" {
		return rs, fmt.Errorf("%w: empty address", ErrInvalidAddressFormat)
	}

	parts := strings.Split(s, ":")
	if len(parts) != len(rs) {
		return rs, fmt.Errorf("%w: %q has %d segments", ErrInvalidAddressFormat, s, len(parts))
	}

	for i, part := range parts {
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return rs, fmt.Errorf("%w: bad octet %q", ErrInvalidAddressFormat, part)
		}
		rs[i] = uint8(v)
	}

	return rs, nil
}

// FromOID recovers a row suffix from the last six sub-identifiers of a row OID.
func FromOID(o oid.OID) (RowSuffix, bool) {
	var rs RowSuffix
	tail := o.Tail(len(rs))
	if tail == nil {
		return rs, false
	}
	for i, n := range tail {
		if n > 255 {
			return rs, false
		}
		rs[i] = uint8(n)
	}
	return rs, true
}

// OID returns the suffix as sub-identifiers, ready to append to a table root.
func (rs RowSuffix) OID() oid.OID {
	o := make(oid.OID, len(rs))
	for i, b := range rs {
		o[i] = uint32(b)
	}
	return o
}

// String renders the dotted decimal form, e.g. ".170.187.204.221.238.255".
func (rs RowSuffix) String() string {
	return rs.OID().String()
}

// MAC renders the suffix back as an upper-case colon-separated address.
func (rs RowSuffix) MAC() string {
	parts := make([]string, len(rs))
	for i, b := range rs {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}
