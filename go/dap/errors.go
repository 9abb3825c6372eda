// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package dap

import (
	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrMalformedAlias        = errors.NewKind("malformed alias %s: %s")
	ErrUnresolvedAlias       = errors.NewKind("unable to resolve alias %s: %s")
	ErrAttributeTypeConflict = errors.NewKind("attribute '%s' was previously defined with type %s, not %s")
	ErrAttributeExists       = errors.NewKind("'%s' already exists in '%s'")
	ErrAttributeBadValue     = errors.NewKind("'%s' is not a valid %s value")
	ErrBadSemantics          = errors.NewKind("%s")
	ErrDataRead              = errors.NewKind("data read failed: %s")
	ErrNoSuchAttribute       = errors.NewKind("no attribute named '%s'")
	ErrNoSuchVariable        = errors.NewKind("no variable named '%s'")
	ErrNoServerVersion       = errors.NewKind("not a valid DAP server: response carries no %s header")
	ErrBadServerVersion      = errors.NewKind("unrecognized server version '%s'")
	ErrDASBuild              = errors.NewKind("cannot build DAS from this DDS: %s")
	ErrInvalidDimension      = errors.NewKind("invalid projection [%d:%d:%d] of dimension '%s' with size %d")
	ErrNoSuchDimension       = errors.NewKind("array '%s' has no dimension %d")
	ErrUnknownEncoding       = errors.NewKind("unsupported content encoding '%s'")
)
