package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/model"
)

// Header lists the columns a batch file must carry, in any order.
var Header = []string{"operation", "account", "target", "amount", "holder", "kind"}

// delimitedParser reads header-led, delimiter-separated batch files.
type delimitedParser struct {
	format    string
	extension string
	comma     rune
}

// NewCSVParser parses comma-separated batch files (*.csv).
func NewCSVParser() Parser {
	return &delimitedParser{format: "csv", extension: ".csv", comma: ','}
}

// NewTSVParser parses tab-separated batch files (*.tsv).
func NewTSVParser() Parser {
	return &delimitedParser{format: "tsv", extension: ".tsv", comma: '\t'}
}

// Format returns the parser name.
func (p *delimitedParser) Format() string { return p.format }

// Extension returns the file extension the parser accepts.
func (p *delimitedParser) Extension() string { return p.extension }

// Parse reads a batch file and returns its operations in file order.
func (p *delimitedParser) Parse(r io.Reader) ([]Operation, error) {
	cr := csv.NewReader(r)
	cr.Comma = p.comma
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s batch: %w", p.format, err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := columnIndex(records[0])
	if err != nil {
		return nil, err
	}

	var ops []Operation
	for i, rec := range records[1:] {
		op, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		op.Row = i + 2
		ops = append(ops, op)
	}
	return ops, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range Header {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing column %q in header", want)
		}
	}
	return cols, nil
}

func parseRow(rec []string, cols map[string]int) (Operation, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec[cols[name]])
	}

	op := Operation{
		Kind:    OpKind(strings.ToLower(field("operation"))),
		Account: normalizeAccount(field("account")),
		Target:  normalizeAccount(field("target")),
		Holder:  field("holder"),
	}

	switch op.Kind {
	case OpOpen:
		kind, err := model.ParseKind(field("kind"))
		if err != nil {
			return Operation{}, err
		}
		op.AccountKind = kind
	case OpDeposit, OpWithdraw:
		if op.Account == "" {
			return Operation{}, fmt.Errorf("%s requires an account", op.Kind)
		}
	case OpTransfer:
		if op.Account == "" || op.Target == "" {
			return Operation{}, fmt.Errorf("transfer requires account and target")
		}
	case OpInterest:
		if op.Account == "" {
			return Operation{}, fmt.Errorf("interest requires an account")
		}
		return op, nil
	default:
		return Operation{}, fmt.Errorf("unknown operation %q", field("operation"))
	}

	raw := field("amount")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Operation{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	op.Amount = amount
	return op, nil
}
