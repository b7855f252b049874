package cli

import (
	"fmt"
	"strings"

	"github.com/nconklindev/sheetrelay/internal/inspect"
	"github.com/nconklindev/sheetrelay/internal/relay"
	"github.com/nconklindev/sheetrelay/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDirectionCommand(ctx *commandContext, d relay.Direction) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   d.Key + " [file]",
		Short: directionShort(d),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := ctx.ensure()
			if err != nil {
				return err
			}

			var file *types.SelectedFile
			if len(args) == 1 {
				file = types.NewSelectedFile(args[0])
			}

			view := newConsoleView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			out := r.Run(cmd.Context(), d, file, view)
			if out.Err != nil {
				view.hint(out.Err, r.BaseURL())
				return errReported
			}
			if out.Link == nil {
				return nil
			}

			if outputPath != "" {
				if err := r.Store().Save(out.Link.Href, outputPath); err != nil {
					return fmt.Errorf("save %s: %w", out.Link.Filename, err)
				}
				view.success.Printfln("Saved %s to %s", out.Link.Filename, outputPath)
			}

			summary, err := inspect.Summarize(out.Link.Path)
			if err != nil {
				ctx.logger.Debug("result summary unavailable",
					zap.String("direction", d.Key),
					zap.String("path", out.Link.Path),
					zap.Error(err))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	if d.Mode == relay.ModeDownload {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also copy the result to this path")
	}
	return cmd
}

func directionShort(d relay.Direction) string {
	exts := strings.Join(d.AllowedTypes, "/")
	if d.Mode == relay.ModeValidate {
		return fmt.Sprintf("Ask the service to validate a %s file", exts)
	}
	return fmt.Sprintf("Convert a %s file via %s (%s)", exts, d.Endpoint, d.Title)
}
