// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	Long: `Enumerate the serial ports on this machine, with USB metadata where
the platform provides it. Useful for finding the right --port value.`,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("failed to enumerate ports: %v", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	for _, port := range ports {
		fmt.Println(port.Name)
		if port.IsUSB {
			fmt.Printf("   USB ID      %s:%s\n", port.VID, port.PID)
			if port.SerialNumber != "" {
				fmt.Printf("   USB serial  %s\n", port.SerialNumber)
			}
			if port.Product != "" {
				fmt.Printf("   Product     %s\n", port.Product)
			}
		}
	}
	return nil
}
