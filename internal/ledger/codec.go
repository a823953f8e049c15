package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/model"
)

// ErrMalformedData is returned when the counter line cannot be parsed.
// Continuing would risk reissuing account numbers.
var ErrMalformedData = errors.New("malformed ledger data")

const (
	fieldSep     = '|'
	historySep   = ";;"
	escapeChar   = '\\'
	minFields    = 5
	colNumber    = 0
	colHolder    = 1
	colBalance   = 2
	colKind      = 3
	colCreatedAt = 4
	colHistory   = 5

	// createdAtFormat matches ISO local date-time text ("2025-01-15T10:30:00.123").
	createdAtFormat = "2006-01-02T15:04:05.999999999"
)

// createdAtLayouts are tried in order when decoding. Older files omit
// seconds when they are zero.
var createdAtLayouts = []string{
	createdAtFormat,
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// SkippedLine describes a data line Decode could not use.
type SkippedLine struct {
	Line   int
	Reason string
}

// DecodeReport summarizes what Decode recovered.
type DecodeReport struct {
	Loaded  int
	Skipped []SkippedLine
	// CounterAdvanced is set when a stored account number was at or past
	// the stored counter and the counter was moved forward.
	CounterAdvanced bool
}

// Encode writes the store: the counter line, then one record per account.
func Encode(w io.Writer, s *Store) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, s.nextSeq); err != nil {
		return fmt.Errorf("writing counter: %w", err)
	}
	for _, n := range s.numbers() {
		if _, err := fmt.Fprintln(bw, MarshalAccount(s.accounts[n])); err != nil {
			return fmt.Errorf("writing account %s: %w", n, err)
		}
	}
	return bw.Flush()
}

// Decode reads a store written by Encode. Empty input yields a fresh store.
// Data lines that cannot be parsed are skipped and listed in the report.
func Decode(r io.Reader, policy model.Policy, opts ...Option) (*Store, DecodeReport, error) {
	var report DecodeReport
	s := NewStore(policy, opts...)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, report, fmt.Errorf("reading counter: %w", err)
		}
		return s, report, nil
	}
	counterLine := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
	counter, err := strconv.Atoi(counterLine)
	if err != nil {
		return nil, report, fmt.Errorf("%w: counter line %q: %v", ErrMalformedData, counterLine, err)
	}
	s.nextSeq = counter

	lineNo := 1
	for sc.Scan() {
		lineNo++
		// Encode never writes a raw CR, so a trailing one is a CRLF ending.
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		acct, err := UnmarshalAccount(line)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedLine{Line: lineNo, Reason: err.Error()})
			continue
		}
		before := s.nextSeq
		if !s.restore(acct) {
			report.Skipped = append(report.Skipped, SkippedLine{Line: lineNo, Reason: "duplicate account number " + acct.Number})
			continue
		}
		if s.nextSeq != before {
			report.CounterAdvanced = true
		}
		report.Loaded++
	}
	if err := sc.Err(); err != nil {
		return nil, report, fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return s, report, nil
}

// MarshalAccount converts an account to one record line.
func MarshalAccount(a *model.Account) string {
	history := make([]string, len(a.History))
	for i, h := range a.History {
		history[i] = escape(h)
	}

	fields := []string{
		escape(a.Number),
		escape(a.Holder),
		formatBalance(a.Balance),
		string(a.Kind),
		a.CreatedAt.Local().Format(createdAtFormat),
		strings.Join(history, historySep),
	}
	return strings.Join(fields, string(fieldSep))
}

// UnmarshalAccount parses one record line.
func UnmarshalAccount(line string) (*model.Account, error) {
	fields := splitFields(line)
	if len(fields) < minFields {
		return nil, fmt.Errorf("expected at least %d fields, got %d", minFields, len(fields))
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(fields[colBalance]))
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", fields[colBalance], err)
	}

	createdAt, err := parseCreatedAt(strings.TrimSpace(fields[colCreatedAt]))
	if err != nil {
		return nil, err
	}

	kind := model.KindCurrent
	if model.Kind(fields[colKind]) == model.KindSavings {
		kind = model.KindSavings
	}

	var history []string
	if len(fields) > colHistory && fields[colHistory] != "" {
		for _, h := range splitHistory(fields[colHistory]) {
			history = append(history, unescape(h))
		}
	}

	return model.Restore(unescape(fields[colNumber]), unescape(fields[colHolder]), kind, balance, createdAt, history), nil
}

// formatBalance writes whole-cent balances with two places and keeps any
// finer precision a loaded balance carries.
func formatBalance(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

func parseCreatedAt(s string) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing created_at %q: unrecognized timestamp", s)
}

// escape protects the separators and line breaks inside a field value.
// Text without them or backslashes is written unchanged.
func escape(s string) string {
	if !strings.ContainsAny(s, "\\|;\n\r") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case escapeChar, fieldSep, ';':
			b.WriteRune(escapeChar)
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescape reverses escape. A backslash before any other character is
// kept as written.
func unescape(s string) string {
	if !strings.ContainsRune(s, escapeChar) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != escapeChar || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch next := s[i+1]; next {
		case escapeChar, fieldSep, ';':
			b.WriteByte(next)
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// splitFields splits on unescaped '|'. Escapes are kept for unescape.
// Trailing empty fields are dropped.
func splitFields(line string) []string {
	var fields []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case escapeChar:
			i++
		case fieldSep:
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	fields = append(fields, line[start:])
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// splitHistory splits on unescaped ";;".
func splitHistory(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == escapeChar:
			i++
		case s[i] == ';' && i+1 < len(s) && s[i+1] == ';':
			parts = append(parts, s[start:i])
			start = i + 2
			i++
		}
	}
	return append(parts, s[start:])
}
