package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/id"
	"github.com/passbook-dev/passbook/internal/report"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var outPath string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export accounts or history as CSV",
	}
	exportCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	exportCmd.AddCommand(&cobra.Command{
		Use:   "accounts",
		Short: "Export every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}
			return withOutput(s.out, outPath, func(w io.Writer) error {
				return report.WriteAccounts(w, s.store.List(), s.policy)
			})
		},
	})

	exportCmd.AddCommand(&cobra.Command{
		Use:   "history <account>",
		Short: "Export one account's transaction history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number := id.Normalize(args[0])
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}
			history, err := s.store.History(number)
			if err != nil {
				return err
			}
			return withOutput(s.out, outPath, func(w io.Writer) error {
				return report.WriteHistory(w, number, history)
			})
		},
	})

	return exportCmd
}

func withOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
