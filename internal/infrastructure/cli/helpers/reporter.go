package helpers

import (
	"bytes"
	"encoding/json"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

const reportSeparator = "-------"

// Reporter prints the verbose prompt report and runs the spinner while a
// request is in flight.
type Reporter struct {
	printer *Printer
	spin    bool
}

// NewReporter returns a reporter printing through p. The spinner only runs
// when spin is set, which callers tie to stderr being a terminal.
func NewReporter(p *Printer, spin bool) *Reporter {
	return &Reporter{printer: p, spin: spin}
}

// Assembled prints the prompt, the effective options and the token counts.
func (r *Reporter) Assembled(a domain.Assembly) {
	if a.Options.Unlimited {
		r.printer.Printf("Set maxTokens to: %d\n", a.Options.MaxTokens)
	}
	r.printer.Printf(">> %s <<\n", a.OriginalPrompt)
	if raw, err := json.MarshalIndent(a.Options, "", "  "); err == nil {
		r.printer.Println(string(raw))
	}
	r.printer.Printf("Encoded Tokens: %d\n", a.TokenEstimate)
	r.printer.Printf("Total Potential Tokens: %d\n", a.TotalTokenEstimate)
	if a.Options.Mock {
		r.printer.Println("Mock mode, not sending.")
	} else {
		r.printer.Println("Sending Prompt...")
	}
	r.printer.Println(reportSeparator)
}

// Dispatching starts the spinner and returns its stop func.
func (r *Reporter) Dispatching(model domain.ModelDescriptor) func() {
	if !r.spin {
		return func() {}
	}
	s := NewSpinner(r.printer.Err)
	s.Start("thinking (" + model.Model + ")")
	return s.Stop
}

// Dispatched prints the request body that was sent.
func (r *Reporter) Dispatched(resp ports.ProviderResponse) {
	if len(resp.Payload) == 0 {
		return
	}
	var out bytes.Buffer
	if err := json.Indent(&out, resp.Payload, "", "  "); err != nil {
		r.printer.Println(string(resp.Payload))
	} else {
		r.printer.Println(out.String())
	}
	r.printer.Println(reportSeparator)
}

var _ ports.ProgressReporter = (*Reporter)(nil)
