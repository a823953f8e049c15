package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/batch"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Apply batch operations from CSV/TSV files",
		Long: "Apply batch operations from the named files, or from every pending file in\n" +
			"the project's import/ directory. Pending files are moved to import/processed/\n" +
			"once applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts.configPath)
			if err != nil {
				return err
			}
			return runImport(s, args, format, dryRun)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "parser to use (csv, tsv); default by file extension")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "apply without saving")

	return cmd
}

func runImport(s *session, paths []string, format string, dryRun bool) error {
	defer s.close()
	reg := batch.DefaultRegistry()

	var files []batch.FileInfo
	fromImportDir := len(paths) == 0
	if fromImportDir {
		scanned, err := batch.Scan(s.root, reg)
		if err != nil {
			return err
		}
		files = scanned
	} else {
		for _, p := range paths {
			files = append(files, batch.FileInfo{Name: filepath.Base(p), Path: p, Parser: reg.ForFile(p)})
		}
	}
	if format != "" {
		p := reg.Get(format)
		if p == nil {
			return fmt.Errorf("unknown format %q", format)
		}
		for i := range files {
			files[i].Parser = p
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(s.out, "No files to import.")
		return nil
	}

	// Parse everything first so a bad file leaves the ledger untouched.
	parsed := make([][]batch.Operation, len(files))
	for i, f := range files {
		if f.Parser == nil {
			return fmt.Errorf("%s: no parser for this file type; use --format", f.Name)
		}
		ops, err := parseFile(f)
		if err != nil {
			return err
		}
		parsed[i] = ops
	}

	var total, failed int
	for i, f := range files {
		results := batch.Apply(s.store, parsed[i])
		total += len(results)
		failed += batch.Failed(results)
		for _, r := range results {
			amount := ""
			if !r.Op.Amount.IsZero() {
				amount = r.Op.Amount.StringFixed(2)
			}
			s.record("import:"+string(r.Op.Kind), r.Account, r.Op.Target, amount, r.Err, f.Name)
			if r.Err != nil {
				fmt.Fprintf(s.out, "%s row %d: %s failed: %v\n", f.Name, r.Op.Row, r.Op.Kind, r.Err)
			}
		}
	}

	fmt.Fprintf(s.out, "Applied %d of %d operation(s) from %d file(s)\n", total-failed, total, len(files))
	if dryRun {
		fmt.Fprintln(s.out, "Dry run: nothing saved.")
		s.audit = nil
		return nil
	}

	if err := s.save(fmt.Sprintf("import: %d operation(s) from %d file(s)", total-failed, len(files))); err != nil {
		return err
	}
	if fromImportDir {
		for _, f := range files {
			if err := batch.MarkProcessed(s.root, f.Name); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d operation(s) failed", failed, total)
	}
	return nil
}

func parseFile(f batch.FileInfo) ([]batch.Operation, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer r.Close()

	ops, err := f.Parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return ops, nil
}
