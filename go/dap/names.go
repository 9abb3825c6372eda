// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

func allowedInName(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '_', '!', '~', '*', '\'', '-', '"':
		return true
	}
	return false
}

// EncodeName percent-escapes every byte of a clear name that may not appear
// in a DAP2 identifier.
func EncodeName(clear string) string {
	n := 0
	for i := 0; i < len(clear); i++ {
		if !allowedInName(clear[i]) {
			n++
		}
	}
	if n == 0 {
		return clear
	}

	var b strings.Builder
	b.Grow(len(clear) + 2*n)
	for i := 0; i < len(clear); i++ {
		c := clear[i]
		if allowedInName(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// DecodeName reverses EncodeName. Malformed escapes are left as they are.
func DecodeName(encoded string) string {
	if !strings.Contains(encoded, "%") {
		return encoded
	}
	s, err := url.PathUnescape(encoded)
	if err != nil {
		return encoded
	}
	return s
}
