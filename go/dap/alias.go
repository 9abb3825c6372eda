// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/attic-labs/dap2/go/d"
)

// rootMarker is the first token of an absolute alias path.
const rootMarker = "."

// tokenizeAliasPath splits an alias path on dots. A segment may be quoted, in
// which case it may contain dots and the escapes \" and \\, and is returned
// with its escapes intact. A leading dot becomes a token of its own.
func tokenizeAliasPath(name, path string) ([]string, error) {
	if path == "" {
		return nil, ErrMalformedAlias.New(name, "the path is empty")
	}

	var tokens []string
	i := 0
	if path[0] == '.' {
		tokens = append(tokens, rootMarker)
		i = 1
	}

	for i < len(path) {
		var tok string
		if path[i] == '"' {
			j := i + 1
			closed := false
			for j < len(path) {
				c := path[j]
				if c == '\\' {
					if j+1 < len(path) && (path[j+1] == '"' || path[j+1] == '\\') {
						j += 2
						continue
					}
					return nil, ErrMalformedAlias.New(name, "illegal escape in quoted segment of '"+path+"'")
				}
				if c == '"' {
					closed = true
					break
				}
				j++
			}
			if !closed {
				return nil, ErrMalformedAlias.New(name, "unterminated quote in '"+path+"'")
			}
			tok = path[i+1 : j]
			i = j + 1
			if i < len(path) && path[i] != '.' {
				return nil, ErrMalformedAlias.New(name, "a quoted segment must be followed by '.' in '"+path+"'")
			}
		} else {
			j := strings.IndexByte(path[i:], '.')
			if j < 0 {
				j = len(path) - i
			}
			tok = path[i : i+j]
			i += j
		}
		if tok == "" {
			return nil, ErrMalformedAlias.New(name, "empty segment in '"+path+"'")
		}
		tokens = append(tokens, tok)

		if i < len(path) {
			// skip the separator
			i++
			if i == len(path) {
				return nil, ErrMalformedAlias.New(name, "the path '"+path+"' ends with '.'")
			}
		}
	}
	return tokens, nil
}

// normalizeName escapes the characters that must be escaped inside a quoted
// alias path segment.
func normalizeName(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// quoteSegment returns name as an alias path segment.
func quoteSegment(name string) string {
	if strings.ContainsAny(name, `."\`) {
		return `"` + normalizeName(name) + `"`
	}
	return name
}

func nameMatches(n Node, tok string) bool {
	return normalizeName(n.EncodedName()) == tok || normalizeName(n.ClearName()) == tok
}

// absoluteTokens tokenizes an alias path and strips the root marker.
func absoluteTokens(alias *Attribute) ([]string, error) {
	name := alias.ClearName()
	tokens, err := tokenizeAliasPath(name, alias.AliasedTo())
	if err != nil {
		return nil, err
	}
	if tokens[0] != rootMarker {
		return nil, ErrMalformedAlias.New(name, "the path '"+alias.AliasedTo()+"' must begin with '.'")
	}
	if len(tokens) == 1 {
		return nil, ErrMalformedAlias.New(name, "an alias may not refer to the root '.' by itself")
	}
	return tokens[1:], nil
}

// matchAttribute follows tokens down from t to an attribute.
func matchAttribute(alias *Attribute, t *AttributeTable, tokens []string) (*Attribute, error) {
	for i, tok := range tokens {
		var match *Attribute
		for _, a := range t.Attributes() {
			if nameMatches(a, tok) {
				match = a
				break
			}
		}
		if match == nil {
			return nil, ErrUnresolvedAlias.New(alias.ClearName(), "no attribute '"+tok+"' in '"+t.EncodedName()+"'")
		}
		if match.IsAlias() {
			return nil, ErrMalformedAlias.New(alias.ClearName(), "aliases may not point to other aliases ('"+match.EncodedName()+"')")
		}
		if i == len(tokens)-1 {
			return match, nil
		}
		if !match.IsContainer() {
			return nil, ErrUnresolvedAlias.New(alias.ClearName(), "'"+match.EncodedName()+"' is not a container")
		}
		t = match.table
	}
	d.Panicf("alias '%s' has an empty path", alias.ClearName())
	return nil, nil
}

// aliasVisitor is called for every alias found in a table walk.
type aliasVisitor func(alias *Attribute) error

// walkAliases visits, depth first, every alias in t and in the tables
// nested in it.
func walkAliases(t *AttributeTable, visit aliasVisitor) error {
	for _, a := range t.Attributes() {
		switch {
		case a.IsAlias():
			if err := visit(a); err != nil {
				return err
			}
		case a.IsContainer():
			if err := walkAliases(a.table, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveDASAliases binds every alias below root to its target in root.
func resolveDASAliases(root *AttributeTable) error {
	return walkAliases(root, func(alias *Attribute) error {
		tokens, err := absoluteTokens(alias)
		if err != nil {
			return err
		}
		target, err := matchAttribute(alias, root, tokens)
		if err != nil {
			return err
		}
		alias.bind(target, nil)
		logrus.WithFields(logrus.Fields{"alias": alias.ClearName(), "path": alias.AliasedTo()}).Trace("resolved DAS alias")
		return nil
	})
}

// deepestMatchingVariable follows tokens down the variable tree from c as
// far as they name variables. It returns the last variable matched and the
// tokens left over, or nil when the first token names no variable.
func deepestMatchingVariable(c Constructor, tokens []string) (BaseType, []string) {
	if len(tokens) == 0 {
		return nil, tokens
	}
	for _, v := range c.Variables() {
		if !nameMatches(v, tokens[0]) {
			continue
		}
		rest := tokens[1:]
		if sub, ok := v.(Constructor); ok {
			if deeper, r := deepestMatchingVariable(sub, rest); deeper != nil {
				return deeper, r
			}
		}
		return v, rest
	}
	return nil, tokens
}

// resolveDDSAlias binds alias to the attribute its path names in dds. The
// path is matched against the variables first and whatever is left against
// the attributes of the deepest variable matched.
func resolveDDSAlias(dds *DDS, alias *Attribute) error {
	tokens, err := absoluteTokens(alias)
	if err != nil {
		return err
	}

	var bt BaseType
	bt, rest := deepestMatchingVariable(dds, tokens)
	if bt == nil {
		bt, rest = dds, tokens
	}

	var target *Attribute
	if len(rest) == 0 {
		target = bt.Attribute()
	} else {
		target, err = matchAttribute(alias, bt.Attributes(), rest)
		if err != nil {
			return err
		}
	}
	alias.bind(target, bt)
	logrus.WithFields(logrus.Fields{
		"alias":    alias.ClearName(),
		"path":     alias.AliasedTo(),
		"variable": bt.EncodedName(),
	}).Trace("resolved DDS alias")
	return nil
}
