// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laniszew/E3J/pkg/movemaster"
)

var (
	initBaud     int
	initParity   string
	initStopBits string
	initNoRTS    bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or create the link settings file",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective link settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadLinkSettings()
		fmt.Printf("Baud rate      %d\n", s.BaudRate)
		fmt.Printf("Data bits      %d\n", s.DataBits)
		fmt.Printf("Parity         %s\n", s.Parity)
		fmt.Printf("Stop bits      %s\n", s.StopBits)
		fmt.Printf("Handshake      %s\n", s.Handshake)
		fmt.Printf("RTS enable     %v\n", s.RtsEnable)
		fmt.Printf("Read timeout   %d ms\n", s.ReadTimeout)
		fmt.Printf("Write timeout  %d ms\n", s.WriteTimeout)
		fmt.Printf("Terminator     %s\n", s.Terminator)
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a link settings file",
	Long: `Create a settings JSON file seeded with the E3J factory parameters
(9600 8E2, RTS/CTS), overridden by the flags. The file path comes from
--settings, defaulting to SerialSettings.json in the working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := movemaster.NewSettingsBuilder().
			BaudRate(initBaud).
			RtsEnable(!initNoRTS)
		if initParity != "" {
			builder.Parity(movemaster.Parity(initParity))
		}
		if initStopBits != "" {
			builder.StopBits(movemaster.StopBits(initStopBits))
		}

		settings, err := builder.BuildAndSave(settingsPath)
		if err != nil {
			return err
		}
		if _, err := settings.Mode(); err != nil {
			return fmt.Errorf("settings written but not usable: %v", err)
		}
		fmt.Printf("Wrote %s\n", settings.Path)
		return nil
	},
}

func init() {
	settingsInitCmd.Flags().IntVar(&initBaud, "baud", movemaster.DefaultBaudRate, "Baud rate")
	settingsInitCmd.Flags().StringVar(&initParity, "parity", "", "Parity (None, Odd, Even)")
	settingsInitCmd.Flags().StringVar(&initStopBits, "stop-bits", "", "Stop bits (One, OnePointFive, Two)")
	settingsInitCmd.Flags().BoolVar(&initNoRTS, "no-rts", false, "Leave the RTS line deasserted")

	settingsCmd.AddCommand(settingsShowCmd, settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}
