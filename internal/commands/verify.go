package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/ledger"
)

func newVerifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the ledger's invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}

			verrs := ledger.Validate(s.store)
			for _, ve := range verrs {
				fmt.Fprintln(s.out, ve.Error())
			}
			if len(verrs) > 0 {
				return fmt.Errorf("%d issue(s) found in %d account(s)", len(verrs), s.store.Count())
			}
			fmt.Fprintf(s.out, "OK: %d account(s), next account number %d\n", s.store.Count(), s.store.NextSeq())
			return nil
		},
	}
}
