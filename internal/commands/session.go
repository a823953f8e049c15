package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/auditlog"
	"github.com/passbook-dev/passbook/internal/config"
	"github.com/passbook-dev/passbook/internal/gitops"
	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/model"
)

// session is one command's view of a project: config, the loaded store,
// and where results are written. Each command loads once and saves once.
type session struct {
	cfgPath  string
	root     string
	cfg      *config.Config
	policy   model.Policy
	store    *ledger.Store
	dataPath string
	runID    string
	out      io.Writer
	errOut   io.Writer

	// loadFailed is set when the data file existed but could not be read.
	// The session then runs against an empty store and refuses to save.
	loadFailed bool
	audit      []auditlog.Entry
}

func openSession(cmd *cobra.Command, cfgPath string) (*session, error) {
	absCfg, err := filepath.Abs(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.LoadOrDefault(absCfg)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.ToPolicy()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfgPath:  absCfg,
		root:     filepath.Dir(absCfg),
		cfg:      cfg,
		policy:   policy,
		dataPath: config.Resolve(absCfg, cfg.Storage.DataFile),
		runID:    uuid.NewString(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}

	store, report, err := ledger.Load(s.dataPath, policy)
	switch {
	case errors.Is(err, ledger.ErrMalformedData):
		return nil, err
	case err != nil:
		fmt.Fprintf(s.errOut, "warning: %v; starting with an empty ledger\n", err)
		store = ledger.NewStore(policy)
		s.loadFailed = true
	}
	for _, sk := range report.Skipped {
		fmt.Fprintf(s.errOut, "warning: %s line %d skipped: %s\n", filepath.Base(s.dataPath), sk.Line, sk.Reason)
	}
	if report.CounterAdvanced {
		fmt.Fprintf(s.errOut, "warning: account counter was behind stored accounts; advanced to %d\n", store.NextSeq())
	}
	s.store = store
	return s, nil
}

// record queues an audit entry for the operation's outcome.
func (s *session) record(op, account, target, amount string, opErr error, details string) {
	e := auditlog.Entry{
		Timestamp: time.Now(),
		Operation: op,
		Account:   account,
		Target:    target,
		Amount:    amount,
		Outcome:   auditlog.OutcomeOK,
		Details:   details,
		RunID:     s.runID,
	}
	switch {
	case opErr == nil:
	case errors.Is(opErr, model.ErrPolicyViolation), errors.Is(opErr, model.ErrNotFound):
		e.Outcome = auditlog.OutcomeRejected
		e.Details = opErr.Error()
	default:
		e.Outcome = auditlog.OutcomeError
		e.Details = opErr.Error()
	}
	s.audit = append(s.audit, e)
}

// save persists the store, then snapshots it into git when configured.
func (s *session) save(message string) error {
	if s.loadFailed {
		return fmt.Errorf("refusing to overwrite %s: it could not be read", s.dataPath)
	}
	if err := ledger.Save(s.dataPath, s.store); err != nil {
		return err
	}

	if s.cfg.Git.AutoCommit && gitops.IsRepo(s.root) {
		rel, err := filepath.Rel(s.root, s.dataPath)
		if err != nil {
			rel = s.dataPath
		}
		author := gitops.Author{Name: s.cfg.Git.AuthorName, Email: s.cfg.Git.AuthorEmail}
		if _, err := gitops.Snapshot(s.root, message, author, rel); err != nil {
			fmt.Fprintf(s.errOut, "warning: git snapshot failed: %v\n", err)
		}
	}
	return nil
}

// close flushes queued audit entries. Failures are reported, not returned:
// the ledger operation itself already succeeded or failed on its own.
func (s *session) close() {
	if !s.cfg.AuditLog.Enabled || len(s.audit) == 0 {
		return
	}
	path := config.Resolve(s.cfgPath, s.cfg.AuditLog.Path)
	if err := auditlog.Append(path, s.audit); err != nil {
		fmt.Fprintf(s.errOut, "warning: failed to write audit log: %v\n", err)
	}
	s.audit = nil
}

// mutate runs one state-changing operation: apply, save on success, audit.
func (s *session) mutate(op, account, target, amount string, apply func() (string, error)) error {
	defer s.close()

	details, err := apply()
	if err == nil {
		err = s.save(commitMessage(op, details, account, target))
	}
	s.record(op, account, target, amount, err, details)
	return err
}

func commitMessage(op, details string, accounts ...string) string {
	subject := op
	for _, a := range accounts {
		if a != "" {
			subject += " " + a
		}
	}
	if details != "" {
		subject += ": " + details
	}
	return subject
}
