// SPDX-License-Identifier: GPL-2.0-or-later
//
// e3j - Movemaster E3J serial driver
//
// A CLI tool for driving a Mitsubishi Movemaster E3J manipulator over its
// line-oriented ASCII serial protocol: program transfer, motion commands
// and link diagnostics.

package main

import (
	"os"

	"github.com/laniszew/E3J/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
