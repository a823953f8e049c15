// Package report writes CSV exports of the account listing and of
// individual transaction logs.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/model"
)

const (
	numAccountFields = 8
	colNumber        = 0
	colHolder        = 1
	colKind          = 2
	colBalance       = 3
	colAvailable     = 4
	colOverdrawn     = 5
	colCreatedAt     = 6
	colEntries       = 7
)

// AccountsHeader is the header row of an accounts export.
var AccountsHeader = []string{"account_number", "holder", "kind", "balance", "available", "overdrawn", "created_at", "entries"}

// HistoryHeader is the header row of a history export.
var HistoryHeader = []string{"account_number", "seq", "timestamp", "entry"}

// Summary totals a listing.
type Summary struct {
	Count     int
	Total     decimal.Decimal
	Overdrawn int
	ByKind    map[model.Kind]int
}

// Summarize totals balances and counts per kind.
func Summarize(accounts []model.Account) Summary {
	s := Summary{Total: decimal.Zero, ByKind: make(map[model.Kind]int)}
	for _, a := range accounts {
		s.Count++
		s.Total = s.Total.Add(a.Balance)
		s.ByKind[a.Kind]++
		if a.IsOverdrawn() {
			s.Overdrawn++
		}
	}
	return s
}

// WriteAccounts writes one row per account.
func WriteAccounts(w io.Writer, accounts []model.Account, policy model.Policy) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(AccountsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct, policy)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an account to an export row.
func MarshalAccount(acct model.Account, policy model.Policy) []string {
	row := make([]string, numAccountFields)
	row[colNumber] = acct.Number
	row[colHolder] = acct.Holder
	row[colKind] = string(acct.Kind)
	row[colBalance] = acct.Balance.StringFixed(2)
	row[colAvailable] = acct.Available(policy).StringFixed(2)
	row[colOverdrawn] = strconv.FormatBool(acct.IsOverdrawn())
	row[colCreatedAt] = acct.CreatedAt.Format(time.RFC3339)
	row[colEntries] = strconv.Itoa(len(acct.History))
	return row
}

// WriteHistory writes an account's log, one entry per row. The leading
// "[timestamp] " of each entry is split into its own column.
func WriteHistory(w io.Writer, number string, history []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(HistoryHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, entry := range history {
		ts, text := SplitEntry(entry)
		if err := cw.Write([]string{number, strconv.Itoa(i + 1), ts, text}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SplitEntry separates "[2025-01-15 10:30:00] Deposited ..." into its
// timestamp and text. Entries without a bracketed prefix return an empty
// timestamp.
func SplitEntry(entry string) (timestamp, text string) {
	if !strings.HasPrefix(entry, "[") {
		return "", entry
	}
	end := strings.Index(entry, "] ")
	if end < 0 {
		return "", entry
	}
	return entry[1:end], entry[end+2:]
}
