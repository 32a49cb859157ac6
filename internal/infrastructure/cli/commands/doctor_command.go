package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
)

const (
	errDoctorServiceUnavailable = "doctor service unavailable"
	errDoctorChecksFailed       = "some checks failed"
)

// NewDoctorCommand creates .doctor.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdDoctor,
		Short: "Diagnose the sllm setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return errors.New(errDoctorServiceUnavailable)
			}
			report, err := container.DoctorService.Run(cmd.Context())
			renderDoctorReport(cmd.OutOrStdout(), report)
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return errors.New(errDoctorChecksFailed)
			}
			return nil
		},
	}
}

func renderDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%-5s] %-14s %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	}
}
