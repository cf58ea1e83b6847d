/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
)

var (
	// These variables are set using -ldflags
	cellgridVersion string
	gitBranch       string
	lastCommitSHA   string
	lastCommitTime  string
)

func BuildDetails() string {
	return fmt.Sprintf(`
Cellgrid version : %v
Commit SHA-1     : %v
Commit timestamp : %v
Branch           : %v

Licensed under the Apache License, Version 2.0.

`,
		Version(), lastCommitSHA, lastCommitTime, gitBranch)
}

func Version() string {
	if cellgridVersion == "" {
		return "dev"
	}
	return cellgridVersion
}
