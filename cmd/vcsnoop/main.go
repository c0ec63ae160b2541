package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
	"pkt.systems/vcsnoop/internal/brokenpipe"
	"pkt.systems/vcsnoop/internal/exithook"
	"pkt.systems/vcsnoop/schema"
)

const programName = "vcsnoop"

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) (code int) {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	defer func() {
		recovered := recover()
		if err := exithook.Run(ctx); err != nil {
			logger.With("err", err).Error("terminal restore failed")
			if code == 0 {
				code = 1
			}
		}
		if recovered != nil {
			panic(recovered)
		}
	}()

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, schema.ErrBrokenPipe):
		return brokenpipe.Terminate(ctx, os.Stdout)
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, usageErr.Err)
		fmt.Fprint(os.Stderr, usageErr.Cmd.UsageString())
		return 1
	}
	pslog.Ctx(ctx).With("err", err).Error("vcsnoop failed")
	return 1
}

func newRootCmd() *cobra.Command {
	var opts captureOptions
	root := &cobra.Command{
		Use:   programName + " /dev/ttyN",
		Short: "Print the text shown on a Linux virtual console",
		Long: `vcsnoop prints the visible text of virtual console /dev/ttyN to standard
output. It briefly switches to that console to select its screen, switches
back, and pastes the selection into its own terminal with echo turned off.`,
		Args:          exactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Device = args[0]
			return runCapture(cmd.Context(), opts)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{Cmd: cmd, Err: err}
	})
	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	root.Flags().StringVar(&opts.TTYPath, "tty", "", "controlling terminal to read the paste from (overrides config)")

	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// usageError marks a command line that could not be parsed.
type usageError struct {
	Cmd *cobra.Command
	Err error
}

func (e *usageError) Error() string {
	return e.Err.Error()
}

func (e *usageError) Unwrap() error {
	return e.Err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{Cmd: cmd, Err: err}
		}
		return nil
	}
}
