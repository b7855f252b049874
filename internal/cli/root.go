// Package cli wires the sheetrelay commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/nconklindev/sheetrelay/internal/relay"
	"github.com/nconklindev/sheetrelay/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("reported")

// BuildInfo is stamped at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func newRootCommand(info BuildInfo) (*cobra.Command, *commandContext) {
	var configFlag string
	var serverFlag string

	ctx := newCommandContext(&configFlag, &serverFlag)

	rootCmd := &cobra.Command{
		Use:   "sheetrelay",
		Short: "Send spreadsheets and JSON data models to a conversion service",
		Long: `sheetrelay uploads an Excel file to a conversion service to obtain JSON,
or uploads JSON to obtain an Excel workbook, and keeps the result as a local
download link. Run without arguments in a terminal for the interactive screen.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return cmd.Help()
			}

			r, err := ctx.ensure()
			if err != nil {
				return err
			}

			p := tea.NewProgram(ui.InitialModel(cmd.Context(), r), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("sheetrelay %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Date))

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Conversion service base URL (overrides config)")

	for _, d := range relay.Directions() {
		rootCmd.AddCommand(newDirectionCommand(ctx, d))
	}
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd, ctx
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(info BuildInfo) {
	cmd, cc := newRootCommand(info)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.ExecuteContext(ctx)
	stop()
	cc.close()

	if err != nil {
		if !errors.Is(err, errReported) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
