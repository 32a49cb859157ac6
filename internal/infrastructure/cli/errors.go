package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/doeshing/sllm/internal/domain"
)

// RenderError prints err for the user, including remediation steps and
// the beta access note where they apply.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, "ERROR:", err)

	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) && len(cfgErr.Remedy) > 0 {
		fmt.Fprintln(w, cfgErr.Remediation())
	}
	var transport *domain.TransportError
	if errors.As(err, &transport) && transport.Status != 0 && transport.Err != nil {
		fmt.Fprintln(w, transport.Err)
	}
}
