package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/vcsnoop/internal/appconfig"
	"pkt.systems/vcsnoop/internal/console"
	"pkt.systems/vcsnoop/internal/vtdev"
)

func newDoctorCmd() *cobra.Command {
	var ttyPath string
	cmd := &cobra.Command{
		Use:   "doctor [/dev/ttyN]",
		Short: "Check that a capture can run here, without switching consoles",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if ttyPath != "" {
				cfg.TTYPath = ttyPath
			}
			device := ""
			if len(args) == 1 {
				device = args[0]
			}
			logger.Info("doctor start", "tty", cfg.TTYPath, "device", device)

			checks := runDoctorChecks(cfg, device, int(os.Stdin.Fd()))
			failed := writeDoctorReport(cmd.OutOrStdout(), checks)
			if failed > 0 {
				return fmt.Errorf("doctor: %d check(s) failed", failed)
			}
			logger.Info("doctor complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&ttyPath, "tty", "", "controlling terminal to check (overrides config)")
	return cmd
}

type doctorCheck struct {
	Name   string
	Detail string
	Err    error
}

func runDoctorChecks(cfg appconfig.Config, device string, stdinFD int) []doctorCheck {
	var checks []doctorCheck

	stdin := doctorCheck{Name: "standard input is a terminal"}
	if !term.IsTerminal(stdinFD) {
		stdin.Err = errors.New("selection and paste are issued on standard input")
	}
	checks = append(checks, stdin)

	open := doctorCheck{Name: "open " + cfg.TTYPath}
	dev, err := console.Open(console.Config{Path: cfg.TTYPath})
	if err != nil {
		open.Err = err
		checks = append(checks, open)
	} else {
		checks = append(checks, open)
		active := doctorCheck{Name: "query active console"}
		index, err := dev.ActiveConsole()
		if err != nil {
			active.Err = err
		} else {
			active.Detail = index.Device()
		}
		checks = append(checks, active)
		_ = dev.Close()
	}

	if device != "" {
		target := doctorCheck{Name: "validate " + device}
		index, err := vtdev.Validate(device)
		if err != nil {
			target.Err = err
		} else {
			target.Detail = "console " + index.String()
		}
		checks = append(checks, target)
	}
	return checks
}

func writeDoctorReport(w io.Writer, checks []doctorCheck) int {
	failed := 0
	for _, check := range checks {
		switch {
		case check.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", check.Name, check.Err)
		case check.Detail != "":
			fmt.Fprintf(w, "ok   %s (%s)\n", check.Name, check.Detail)
		default:
			fmt.Fprintf(w, "ok   %s\n", check.Name)
		}
	}
	return failed
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &usageError{Cmd: cmd, Err: err}
		}
		return nil
	}
}
