package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/id"
	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/report"
)

func newBalanceCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number := id.Normalize(args[0])
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}

			acct, ok := s.store.Get(number)
			if !ok {
				return fmt.Errorf("%w: %s", model.ErrNotFound, number)
			}
			fmt.Fprintf(s.out, "Account:   %s\n", acct.Number)
			fmt.Fprintf(s.out, "Holder:    %s\n", acct.Holder)
			fmt.Fprintf(s.out, "Kind:      %s\n", acct.Kind)
			fmt.Fprintf(s.out, "Balance:   %s\n", s.policy.Money(acct.Balance))
			fmt.Fprintf(s.out, "Available: %s\n", s.policy.Money(acct.Available(s.policy)))
			if acct.IsOverdrawn() {
				fmt.Fprintln(s.out, "Status:    overdrawn")
			}
			return nil
		},
	}
}

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <account>",
		Short: "Show an account's transaction history",
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
			if len(history) == 0 {
				fmt.Fprintln(s.out, "No transactions found.")
				return nil
			}
			fmt.Fprintf(s.out, "Transaction history for %s\n", number)
			for _, entry := range history {
				fmt.Fprintln(s.out, entry)
			}
			return nil
		},
	}
}

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}

			accounts := s.store.List()
			if len(accounts) == 0 {
				fmt.Fprintln(s.out, "No accounts found.")
				return nil
			}

			tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ACCOUNT\tHOLDER\tKIND\tBALANCE")
			for _, a := range accounts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Number, truncate(a.Holder, 20), a.Kind, s.policy.Money(a.Balance))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			sum := report.Summarize(accounts)
			fmt.Fprintf(s.out, "Total accounts: %d (savings %d, current %d, overdrawn %d)\n",
				s.store.Count(), sum.ByKind[model.KindSavings], sum.ByKind[model.KindCurrent], sum.Overdrawn)
			fmt.Fprintf(s.out, "Total balance:  %s\n", s.policy.Money(sum.Total))
			return nil
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
