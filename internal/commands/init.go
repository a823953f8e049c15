package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/config"
	"github.com/passbook-dev/passbook/internal/gitops"
	"github.com/passbook-dev/passbook/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var name, currency string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new passbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(absDir, name, currency, useGit)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized passbook project at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized passbook project at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "bank-name", "", "bank name (required)")
	_ = cmd.MarkFlagRequired("bank-name")
	cmd.Flags().StringVar(&currency, "currency", "", "currency symbol for history entries")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and snapshot the ledger after each change")

	return cmd
}

func runInit(dir, name, currency string, useGit bool) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists", cfgPath)
	}

	dirs := []string{
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	if currency != "" {
		cfg.Bank.Currency = currency
	}
	cfg.Git.AutoCommit = useGit
	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	policy, err := cfg.ToPolicy()
	if err != nil {
		return "", err
	}
	dataPath := config.Resolve(cfgPath, cfg.Storage.DataFile)
	if err := ledger.Save(dataPath, ledger.NewStore(policy)); err != nil {
		return "", fmt.Errorf("writing empty ledger: %w", err)
	}

	gitignore := "logs/\nimport/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	if !useGit {
		return "", nil
	}
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return "", fmt.Errorf("git init: %w", err)
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Snapshot(dir, "init: Initialize "+name, author)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
