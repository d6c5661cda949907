// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laniszew/E3J/pkg/movemaster"
)

var (
	convertToDevice bool
	convertOutPath  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert program text between controller and editable form",
	Long: `Offline conversion of robot program text. By default the file is
treated as controller output: line numbers are stripped and subroutine
targets (GS) are rewritten from absolute device lines to logical line
indexes. With --to-device the transform runs the other way, renumbering
lines in steps of 5 and rewriting GS targets back to device lines.

Writes to stdout unless --out is given. Needs no connection.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertToDevice, "to-device", false, "Convert editable text to the controller's numbered form")
	convertCmd.Flags().StringVarP(&convertOutPath, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var converted string
	if convertToDevice {
		converted = movemaster.ToManipulator(string(data))
	} else {
		converted = movemaster.ToPC(string(data))
	}

	if convertOutPath == "" {
		fmt.Println(converted)
		return nil
	}
	return os.WriteFile(convertOutPath, []byte(converted), 0644)
}
