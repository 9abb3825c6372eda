// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package d holds the invariant checks used across the dap2 tree. Failures
// here are programming errors, never bad input: they panic.
package d

import "fmt"

// Error is the value a failed check panics with. Try turns it back into an
// error.
type Error struct {
	msg string
}

func (e Error) Error() string {
	return e.msg
}

// Panicf panics with an Error carrying the formatted message.
func Panicf(format string, args ...interface{}) {
	panic(Error{fmt.Sprintf(format, args...)})
}

// PanicIfTrue panics if b is true.
func PanicIfTrue(b bool) {
	if b {
		Panicf("expected false")
	}
}

// PanicIfFalse panics if b is false.
func PanicIfFalse(b bool) {
	if !b {
		Panicf("expected true")
	}
}

// PanicIfError panics if err is not nil.
func PanicIfError(err error) {
	if err != nil {
		Panicf("%s", err)
	}
}

// Try calls f and returns the Error of any check that failed in it. Other
// panics are re-panicked.
func Try(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}
