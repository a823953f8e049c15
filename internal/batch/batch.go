// Package batch applies bulk ledger operations read from files.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/id"
	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/model"
)

// OpKind names a batch operation.
type OpKind string

const (
	OpOpen     OpKind = "open"
	OpDeposit  OpKind = "deposit"
	OpWithdraw OpKind = "withdraw"
	OpTransfer OpKind = "transfer"
	OpInterest OpKind = "interest"
)

// Operation is one parsed row of a batch file.
type Operation struct {
	Row         int
	Kind        OpKind
	Account     string // source account; unused for open
	Target      string // transfer destination
	Amount      decimal.Decimal
	Holder      string     // open only
	AccountKind model.Kind // open only
}

// Result records what happened to one operation.
type Result struct {
	Op      Operation
	Account string // the account created by an open
	Err     error
}

// Parser converts a batch file into Operations.
type Parser interface {
	Parse(r io.Reader) ([]Operation, error)
	Format() string
	Extension() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a batch file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Parser Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile returns the parser whose extension matches name, or nil.
func (r *Registry) ForFile(name string) Parser {
	ext := strings.ToLower(filepath.Ext(name))
	for _, p := range r.parsers {
		if p.Extension() == ext {
			return p
		}
	}
	return nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewCSVParser())
	r.Register(NewTSVParser())
	return r
}

// importDir is the subdirectory for pending batch files.
const importDir = "import"

// processedDir is the subdirectory for applied batch files.
const processedDir = "import/processed"

// Scan returns batch files in <root>/import/ that some parser accepts.
func Scan(root string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := reg.ForFile(e.Name())
		if p == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Parser: p,
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Apply runs every operation against s in order. A failing operation does
// not stop later ones; each outcome is reported in the returned results.
func Apply(s *ledger.Store, ops []Operation) []Result {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		res := Result{Op: op}
		switch op.Kind {
		case OpOpen:
			res.Account, res.Err = s.CreateAccount(op.Holder, op.AccountKind, op.Amount)
		case OpDeposit:
			res.Err = s.Deposit(op.Account, op.Amount)
		case OpWithdraw:
			res.Err = s.Withdraw(op.Account, op.Amount)
		case OpTransfer:
			res.Err = s.Transfer(op.Account, op.Target, op.Amount)
		case OpInterest:
			_, res.Err = s.AccrueInterest(op.Account)
		default:
			res.Err = fmt.Errorf("unknown operation %q", op.Kind)
		}
		if res.Account == "" {
			res.Account = op.Account
		}
		results = append(results, res)
	}
	return results
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func normalizeAccount(s string) string {
	if s == "" {
		return ""
	}
	return id.Normalize(s)
}
