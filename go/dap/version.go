// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/attic-labs/dap2/go/d"
)

const (
	// HeaderXDAP carries the protocol version of DAP2 responses.
	HeaderXDAP = "XDAP"
	// Legacy servers announce their own version instead.
	HeaderXDODSServer    = "XDODS-Server"
	HeaderXOPeNDAPServer = "XOPeNDAP-Server"

	// DefaultProtocolVersion is the protocol version this package writes.
	DefaultProtocolVersion = "3.2"
)

var versionPattern = regexp.MustCompile(`^(?:[A-Za-z][A-Za-z0-9_-]*/)?(\d+)\.(\d+)(?:\.(\d+))?`)

// ServerVersion is the protocol version negotiated with the producer of a
// data stream.
type ServerVersion struct {
	Major    int
	Minor    int
	Subminor int
	Raw      string
}

// ParseServerVersion parses MAJOR.MINOR[.SUBMINOR], optionally prefixed by a
// product name as in "dods/3.4.7".
func ParseServerVersion(s string) (ServerVersion, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return ServerVersion{}, ErrBadServerVersion.New(s)
	}
	v := ServerVersion{Raw: s}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Subminor, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// MustParseServerVersion is like ParseServerVersion but panics on error.
func MustParseServerVersion(s string) ServerVersion {
	v, err := ParseServerVersion(s)
	d.PanicIfError(err)
	return v
}

// DefaultServerVersion is the version used when writing data.
func DefaultServerVersion() ServerVersion {
	return MustParseServerVersion(DefaultProtocolVersion)
}

// NegotiateServerVersion reads the protocol version from response headers.
// The XDAP header wins over the legacy server headers.
func NegotiateServerVersion(h http.Header) (ServerVersion, error) {
	for _, key := range []string{HeaderXDAP, HeaderXOPeNDAPServer, HeaderXDODSServer} {
		if s := h.Get(key); s != "" {
			return ParseServerVersion(s)
		}
	}
	return ServerVersion{}, ErrNoServerVersion.New(HeaderXDAP + " or " + HeaderXDODSServer)
}

// IsZero returns true for the zero ServerVersion, which stands for an
// unknown version.
func (v ServerVersion) IsZero() bool {
	return v == ServerVersion{}
}

// LegacySequenceFraming reports whether sequences are sent without row
// markers, as by servers older than 2.15. An unknown version uses markers.
func (v ServerVersion) LegacySequenceFraming() bool {
	if v.IsZero() {
		return false
	}
	return v.Major < 2 || (v.Major == 2 && v.Minor < 15)
}

func (v ServerVersion) String() string {
	if v.Subminor != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Subminor)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
