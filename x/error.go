/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

// This file contains some functions for error handling. Library packages return errors; these
// helpers are for command entry points and for invariants whose violation is a bug.
// Some common use cases are:
// (1) You receive an error from external lib, and would like to check/log fatal.
//     For this, use x.Check, x.Checkf. If you want to check for boolean being true, use
//     x.AssertTruef.
// (2) You receive an error from external lib, and would like to pass on with some
//     stack trace information. In this case, use x.Wrapf or errors.Wrapf.
// (3) You want to generate a new error with stack trace info. Use errors.Errorf.

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Check logs fatal if err != nil.
func Check(err error) {
	if err != nil {
		glog.Fatalf("%+v", errors.Wrap(err, ""))
	}
}

// Checkf is Check with extra info.
func Checkf(err error, format string, args ...interface{}) {
	if err != nil {
		glog.Fatalf("%+v", errors.Wrapf(err, format, args...))
	}
}

// CheckfNoTrace is Checkf without a stack trace. Used for errors caused by user input.
func CheckfNoTrace(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// Wrapf is errors.Wrapf that keeps nil errors nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

// Ignore function is used to ignore errors deliberately, while keeping the
// linter happy.
func Ignore(_ error) {
	// Do nothing.
}

// AssertTruef asserts that b is true. Otherwise, it would log fatal with the given message.
func AssertTruef(b bool, format string, args ...interface{}) {
	if !b {
		glog.Fatalf("%+v", errors.Errorf(format, args...))
	}
}
