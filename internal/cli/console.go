package cli

import (
	"errors"
	"io"

	"github.com/nconklindev/sheetrelay/internal/relay"

	"github.com/pterm/pterm"
)

// consoleView prints relay outcomes. Console output is append-only, so
// clearing is a no-op.
type consoleView struct {
	success *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
	info    *pterm.PrefixPrinter
}

func newConsoleView(out, errOut io.Writer) *consoleView {
	return &consoleView{
		success: pterm.Success.WithWriter(out),
		failure: pterm.Error.WithWriter(errOut),
		info:    pterm.Info.WithWriter(errOut),
	}
}

func (v *consoleView) ShowDownload(link relay.Link) {
	v.success.Printfln("%s (%s): %s", link.Label, link.Filename, link.Href)
}

func (v *consoleView) ShowMessage(text string) {
	v.success.Println(text)
}

func (v *consoleView) ShowError(text string) {
	v.failure.Println(text)
}

func (v *consoleView) ClearError() {}

func (v *consoleView) ClearMessage() {}

// hint prints a troubleshooting line for transport failures.
func (v *consoleView) hint(err error, baseURL string) {
	var terr *relay.TransportError
	if !errors.As(err, &terr) {
		return
	}

	switch terr.Kind {
	case relay.KindConnectionRefused:
		v.info.Printfln("Nothing is accepting connections at %s. Is the conversion service running?", baseURL)
	case relay.KindTimeout:
		v.info.Println("The conversion service took too long to respond. Raise service.timeout_seconds or try again.")
	case relay.KindDNS:
		v.info.Printfln("Cannot resolve the host in %s. Check the --server flag or service.url.", baseURL)
	case relay.KindMalformedResponse:
		v.info.Printfln("The service at %s did not answer in the expected format.", baseURL)
	}
}
