package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix starts every account number.
const Prefix = "ACC"

// FirstSeq is the sequence a fresh store starts from.
const FirstSeq = 1001

// FormatAccountNumber returns an account number like "ACC1001".
func FormatAccountNumber(seq int) string {
	return Prefix + strconv.Itoa(seq)
}

// ParseAccountNumber parses "ACC1001" into its sequence.
func ParseAccountNumber(number string) (int, error) {
	digits, ok := strings.CutPrefix(number, Prefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("invalid account number format: %q", number)
	}
	seq, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in account number %q: %w", number, err)
	}
	if seq < 0 {
		return 0, fmt.Errorf("negative sequence in account number %q", number)
	}
	return seq, nil
}

// Normalize upper-cases and trims user input ("acc1001 " -> "ACC1001").
func Normalize(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// Less orders account numbers by sequence. Unparsable numbers sort last,
// lexically among themselves.
func Less(a, b string) bool {
	sa, errA := ParseAccountNumber(a)
	sb, errB := ParseAccountNumber(b)
	switch {
	case errA == nil && errB == nil:
		if sa != sb {
			return sa < sb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
