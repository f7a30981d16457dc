// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/abtecnologia/distritos/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
