package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/id"
	"github.com/passbook-dev/passbook/internal/model"
)

func newOpenCommand(opts *globalOptions) *cobra.Command {
	var holder, kind, deposit string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a savings or current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			amount, err := parseAmount(deposit)
			if err != nil {
				return err
			}

			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}

			var number string
			err = s.mutate("open", "", "", amount.StringFixed(2), func() (string, error) {
				var createErr error
				number, createErr = s.store.CreateAccount(holder, k, amount)
				if createErr != nil {
					return "", createErr
				}
				return fmt.Sprintf("opened %s %s for %s", k, number, holder), nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(s.out, "Account created: %s\n", number)
			fmt.Fprintf(s.out, "Holder:          %s\n", holder)
			fmt.Fprintf(s.out, "Kind:            %s\n", k)
			fmt.Fprintf(s.out, "Balance:         %s\n", s.policy.Money(amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&holder, "holder", "", "account holder name (required)")
	_ = cmd.MarkFlagRequired("holder")
	cmd.Flags().StringVar(&kind, "kind", "savings", "account kind: savings or current")
	cmd.Flags().StringVar(&deposit, "deposit", "", "initial deposit (required)")
	_ = cmd.MarkFlagRequired("deposit")

	return cmd
}

func newDepositCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAmountOp(cmd, opts, "deposit", id.Normalize(args[0]), args[1])
		},
	}
}

func newWithdrawCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <account> <amount>",
		Short: "Withdraw money from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAmountOp(cmd, opts, "withdraw", id.Normalize(args[0]), args[1])
		},
	}
}

func runAmountOp(cmd *cobra.Command, opts *globalOptions, op, number, rawAmount string) error {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, opts.configPath)
	if err != nil {
		return err
	}

	err = s.mutate(op, number, "", amount.StringFixed(2), func() (string, error) {
		var opErr error
		if op == "deposit" {
			opErr = s.store.Deposit(number, amount)
		} else {
			opErr = s.store.Withdraw(number, amount)
		}
		if opErr != nil {
			return "", opErr
		}
		bal, _ := s.store.BalanceOf(number)
		return "balance " + bal.StringFixed(2), nil
	})
	if err != nil {
		return err
	}

	acct, _ := s.store.Get(number)
	fmt.Fprintf(s.out, "%s of %s on %s complete. Balance: %s\n", op, s.policy.Money(amount), number, s.policy.Money(acct.Balance))
	if acct.IsOverdrawn() {
		fmt.Fprintf(s.out, "Account is overdrawn. Available including overdraft: %s\n", s.policy.Money(acct.Available(s.policy)))
	}
	return nil
}

func newTransferCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Transfer money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := id.Normalize(args[0]), id.Normalize(args[1])
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}

			err = s.mutate("transfer", from, to, amount.StringFixed(2), func() (string, error) {
				return "", s.store.Transfer(from, to, amount)
			})
			if err != nil {
				return err
			}

			fromBal, _ := s.store.BalanceOf(from)
			toBal, _ := s.store.BalanceOf(to)
			fmt.Fprintf(s.out, "Transferred %s from %s to %s\n", s.policy.Money(amount), from, to)
			fmt.Fprintf(s.out, "%s balance: %s\n", from, s.policy.Money(fromBal))
			fmt.Fprintf(s.out, "%s balance: %s\n", to, s.policy.Money(toBal))
			return nil
		},
	}
}

func newInterestCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interest <account>",
		Short: "Credit interest to a savings account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number := id.Normalize(args[0])
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}

			var credited string
			err = s.mutate("interest", number, "", "", func() (string, error) {
				interest, accrueErr := s.store.AccrueInterest(number)
				if accrueErr != nil {
					return "", accrueErr
				}
				credited = s.policy.Money(interest)
				return "credited " + interest.StringFixed(2), nil
			})
			if err != nil {
				return err
			}

			bal, _ := s.store.BalanceOf(number)
			fmt.Fprintf(s.out, "Interest rate:   %s%%\n", s.policy.InterestRate.Shift(2).String())
			fmt.Fprintf(s.out, "Interest amount: %s\n", credited)
			fmt.Fprintf(s.out, "New balance:     %s\n", s.policy.Money(bal))
			return nil
		},
	}
}
