// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName     string
	settingsPath string

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "e3j",
	Short: "Movemaster E3J serial driver",
	Long: `e3j - A CLI tool for driving a Mitsubishi Movemaster E3J manipulator
over its line-oriented ASCII serial protocol.

Provides commands for listing, downloading, uploading, deleting and running
robot programs, reading the arm position, converting program text between
the controller's numbered form and the editable form, and an interactive
console for raw protocol work.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--settings SerialSettings.json]
  WebSocket: --url ws://host/path [--username user]

Link parameters default to the E3J factory values (9600 8E2, RTS/CTS) and
can be persisted to a JSON settings file. For WebSocket authentication the
password is read from the E3J_PASSWORD environment variable, or prompted
interactively if not set. The --password flag is intentionally not provided
to avoid leaking credentials in shell history.`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	// A .env next to the binary can carry E3J_PORT, E3J_URL, E3J_USERNAME
	// and E3J_PASSWORD. A missing file is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", os.Getenv("E3J_PORT"), "Serial port device")
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", os.Getenv("E3J_SETTINGS"), "Link settings JSON file")
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", os.Getenv("E3J_URL"), "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", os.Getenv("E3J_USERNAME"), "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
