package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/buildinfo"
	"github.com/passbook-dev/passbook/internal/config"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configPath string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "passbook",
		Short:   "Savings and current account ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to the project config file")

	rootCmd.AddCommand(
		newInitCommand(),
		newOpenCommand(opts),
		newDepositCommand(opts),
		newWithdrawCommand(opts),
		newTransferCommand(opts),
		newInterestCommand(opts),
		newBalanceCommand(opts),
		newHistoryCommand(opts),
		newListCommand(opts),
		newVerifyCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return d, nil
}
