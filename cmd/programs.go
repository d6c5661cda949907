// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/laniszew/E3J/pkg/movemaster"
)

var (
	downloadDir  string
	downloadAsPC bool
	uploadName   string
	uploadRaw    bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "List programs stored on the controller",
	Long: `Query the controller's program directory page by page and print the
name, size and timestamp of every stored program.`,
	RunE: runDir,
}

var downloadCmd = &cobra.Command{
	Use:   "download [name...]",
	Short: "Download programs from the controller",
	Long: `Download the named programs line by line and write each to a file.
With no names, every program in the controller's directory is downloaded.

Files are written to the output directory as <name>.txt in the
controller's numbered form; --as-pc converts them to the editable,
unnumbered form first.

Ctrl+C stops between steps; programs downloaded so far are kept.`,
	RunE: runDownload,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a program file to the controller",
	Long: `Send a program file to the controller line by line, replacing any
stored program of the same name. The file is assumed to be in the
editable form and is renumbered for the controller; --raw sends it
verbatim instead. The program name defaults to the file name without
its extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a program from the controller",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var runProgramCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Run a program, or resume the selected one",
	Long: `Start the named program from its first line. With no name, resume
whatever program the controller has selected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Halt motion and reset the program state",
	RunE:  runStop,
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Read the current arm position and hand state",
	RunE:  runWhere,
}

var sendCmd = &cobra.Command{
	Use:   "send <command...>",
	Short: "Send one raw protocol command",
	Long: `Transmit a pre-formed command expression verbatim, e.g.:

  e3j send -p /dev/ttyUSB0 "MO 3,O"

Any reply frame that arrives within the reply window is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadDir, "out", "o", ".", "Output directory")
	downloadCmd.Flags().BoolVar(&downloadAsPC, "as-pc", false, "Convert to the editable, unnumbered form")
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "Program name on the controller")
	uploadCmd.Flags().BoolVar(&uploadRaw, "raw", false, "Send the file verbatim, without renumbering")

	rootCmd.AddCommand(dirCmd, downloadCmd, uploadCmd, deleteCmd, runProgramCmd, stopCmd, whereCmd, sendCmd)
}

// interruptContext returns a context cancelled by Ctrl+C, for the
// cooperative cancellation checkpoints in the transfer loops.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runDir(cmd *cobra.Command, args []string) error {
	m, connInfo, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("Connection: %s\n\n", connInfo)
	programs := movemaster.NewService(m).ReadProgramInfo(ctx)
	if len(programs) == 0 {
		fmt.Println("No programs on the controller")
		return nil
	}

	fmt.Printf("%s\n", headerStyle.Render(fmt.Sprintf("%-10s %8s  %s", "NAME", "SIZE", "SAVED")))
	for _, p := range programs {
		fmt.Printf("%s %8d  %s\n",
			nameStyle.Render(fmt.Sprintf("%-10s", p.Name)),
			p.Size,
			dimStyle.Render(p.Timestamp))
	}
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	m, connInfo, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("Connection: %s\n", connInfo)

	svc := movemaster.NewService(m)
	svc.OnProgress(func(name string, step, total int, event movemaster.ProgressEvent) {
		if event == movemaster.EventProgramDownloaded {
			fmt.Printf("[%d/%d] %s\n", step, total, name)
		}
	})

	var remotes []*movemaster.RemoteProgram
	if len(args) == 0 {
		remotes = svc.ReadProgramInfo(ctx)
		if len(remotes) == 0 {
			fmt.Println("No programs on the controller")
			return nil
		}
	} else {
		for _, name := range args {
			remotes = append(remotes, &movemaster.RemoteProgram{Name: name})
		}
	}

	programs, err := svc.DownloadPrograms(ctx, remotes)
	for _, p := range programs {
		content := p.Content
		if downloadAsPC {
			content = movemaster.ToPC(content)
		}
		path := filepath.Join(downloadDir, p.Name+".txt")
		if writeErr := os.WriteFile(path, []byte(content), 0644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, writeErr)
			continue
		}
		fmt.Printf("Saved %s\n", path)
	}
	if err != nil {
		return fmt.Errorf("download incomplete: %v", err)
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	name := uploadName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	program := movemaster.NewProgram(name)
	program.Path = args[0]
	if uploadRaw {
		program.Content = string(data)
	} else {
		program.Content = movemaster.ToManipulator(string(data))
	}

	m, connInfo, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Uploading %q (%d lines)\n", name, len(program.Lines()))

	svc := movemaster.NewService(m)
	svc.OnProgress(func(_ string, step, total int, event movemaster.ProgressEvent) {
		switch event {
		case movemaster.EventLineUploaded:
			fmt.Printf("\r  line %d/%d", step, total)
		case movemaster.EventProgramUploaded:
			fmt.Printf("\rUploaded %d lines\n", total)
		}
	})

	if err := svc.UploadProgram(ctx, program); err != nil {
		return fmt.Errorf("upload failed: %v", err)
	}
	if ctx.Err() != nil {
		fmt.Println("\nUpload interrupted; the program on the controller is incomplete")
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	m, _, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	if !movemaster.NewService(m).DeleteProgram(ctx, args[0]) {
		return fmt.Errorf("could not delete %q", args[0])
	}
	fmt.Printf("Deleted %q\n", args[0])
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	m, _, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	movemaster.NewService(m).RunProgram(ctx, name)
	if name == "" {
		fmt.Println("Resumed")
	} else {
		fmt.Printf("Running %q\n", name)
	}
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	m, _, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	movemaster.NewService(m).StopProgram(ctx)
	fmt.Println("Stopped")
	return nil
}

func runWhere(cmd *cobra.Command, args []string) error {
	m, _, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	position, err := m.Where(ctx)
	if err != nil {
		return fmt.Errorf("position read failed: %v", err)
	}

	fmt.Printf("X  %10.3f\n", position.X)
	fmt.Printf("Y  %10.3f\n", position.Y)
	fmt.Printf("Z  %10.3f\n", position.Z)
	fmt.Printf("A  %10.3f\n", position.A)
	fmt.Printf("B  %10.3f\n", position.B)
	grip := "closed"
	if position.Grip == movemaster.GripOpen {
		grip = "open"
	}
	fmt.Printf("Grip %s\n", grip)
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	m, _, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	ctx, cancel := interruptContext()
	defer cancel()

	expr := strings.Join(args, " ")
	session := movemaster.NewSession(m.Transport())
	frame, err := session.Query(ctx, expr)
	if err == movemaster.ErrNoReply {
		// Most instructions answer nothing; silence is success here.
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(movemaster.TrimFrame(frame))
	return nil
}
