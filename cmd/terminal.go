// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laniszew/E3J/pkg/movemaster"
)

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Interactive raw protocol console",
	Long: `Open a line-oriented console on the controller link. Every line you
type is transmitted verbatim as one command; every frame the controller
sends is printed as it arrives.

This is the tool for poking at individual instructions (WH, ER, SP 9, ...)
without the typed API in the way. Type "exit" or press Ctrl+D to leave.`,
	RunE: runTerminal,
}

func init() {
	rootCmd.AddCommand(terminalCmd)
}

func runTerminal(cmd *cobra.Command, args []string) error {
	m, connInfo, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Type a command per line; \"exit\" or Ctrl+D to leave\n\n")

	m.Transport().OnFrame(func(frame string) {
		fmt.Printf("<< %s\n", movemaster.TrimFrame(frame))
	})
	m.Transport().OnStatusChanged(func(_, newStatus bool) {
		if !newStatus {
			fmt.Fprintln(os.Stderr, "-- link lost --")
		}
	})

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if line == "stats" {
			fmt.Print(m.Transport().Stats().Snapshot())
			continue
		}
		if err := m.SendCustom(line); err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		}
	}

	fmt.Print(m.Transport().Stats().Snapshot())
	return scanner.Err()
}
