package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects an account's withdrawal policy.
type Kind string

const (
	KindSavings Kind = "SAVINGS"
	KindCurrent Kind = "CURRENT"
)

// ParseKind accepts "savings"/"current" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindSavings:
		return KindSavings, nil
	case KindCurrent:
		return KindCurrent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// historyTimeFormat prefixes every history entry.
const historyTimeFormat = "2006-01-02 15:04:05"

// Account is one ledger account. Balance and History change only through
// Deposit, Withdraw, TransferTo and AccrueInterest.
type Account struct {
	Number    string
	Holder    string
	Balance   decimal.Decimal
	Kind      Kind
	CreatedAt time.Time
	History   []string
}

// NewAccount builds a freshly opened account and records the opening entry.
func NewAccount(number, holder string, kind Kind, initial decimal.Decimal, policy Policy, now time.Time) *Account {
	a := &Account{
		Number:    number,
		Holder:    holder,
		Balance:   initial,
		Kind:      kind,
		CreatedAt: now,
	}
	a.record(now, "Account created with initial deposit of %s", policy.Money(initial))
	return a
}

// Restore rebuilds an account from persisted data. Nothing is recorded and
// no policy is checked: stored history is trusted.
func Restore(number, holder string, kind Kind, balance decimal.Decimal, createdAt time.Time, history []string) *Account {
	return &Account{
		Number:    number,
		Holder:    holder,
		Balance:   balance,
		Kind:      kind,
		CreatedAt: createdAt,
		History:   append([]string(nil), history...),
	}
}

// Deposit adds a positive amount. It never fails for lack of funds.
func (a *Account) Deposit(amount decimal.Decimal, policy Policy, now time.Time) error {
	if !ValidAmount(amount) {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	a.record(now, "Deposited %s | Balance: %s", policy.Money(amount), policy.Money(a.Balance))
	return nil
}

// Withdraw removes amount if the kind's policy allows it.
func (a *Account) Withdraw(amount decimal.Decimal, policy Policy, now time.Time) error {
	if err := a.checkWithdraw(amount, policy); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)

	status := ""
	if a.IsOverdrawn() {
		status = " (Overdraft)"
	}
	a.record(now, "Withdrawn %s%s | Balance: %s", policy.Money(amount), status, policy.Money(a.Balance))
	return nil
}

// TransferTo moves amount from a to target. Each side gains exactly one
// history entry on success; on failure neither account changes.
func (a *Account) TransferTo(target *Account, amount decimal.Decimal, policy Policy, now time.Time) error {
	if err := a.checkWithdraw(amount, policy); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)
	target.Balance = target.Balance.Add(amount)

	a.record(now, "Transferred %s to A/C %s | Balance: %s", policy.Money(amount), target.Number, policy.Money(a.Balance))
	target.record(now, "Received %s from A/C %s | Balance: %s", policy.Money(amount), a.Number, policy.Money(target.Balance))
	return nil
}

// AccrueInterest credits one period of interest to a savings account and
// returns the amount credited.
func (a *Account) AccrueInterest(policy Policy, now time.Time) (decimal.Decimal, error) {
	if a.Kind != KindSavings {
		return decimal.Zero, ErrWrongKind
	}
	interest := a.Balance.Mul(policy.InterestRate).Round(2)
	a.Balance = a.Balance.Add(interest)
	a.record(now, "Interest credited %s @ %s%% | Balance: %s",
		policy.Money(interest), policy.InterestRate.Shift(2).String(), policy.Money(a.Balance))
	return interest, nil
}

// ValidAmount reports whether amount is positive and in whole cents.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Round(2))
}

// IsOverdrawn reports a negative balance.
func (a *Account) IsOverdrawn() bool {
	return a.Balance.IsNegative()
}

// Available returns how much can still be withdrawn under the kind's policy.
func (a *Account) Available(policy Policy) decimal.Decimal {
	var avail decimal.Decimal
	switch a.Kind {
	case KindSavings:
		avail = a.Balance.Sub(policy.MinimumBalance)
	default:
		avail = a.Balance.Add(policy.OverdraftLimit)
	}
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// Snapshot returns a copy that shares no state with a.
func (a *Account) Snapshot() Account {
	cp := *a
	cp.History = append([]string(nil), a.History...)
	return cp
}

func (a *Account) checkWithdraw(amount decimal.Decimal, policy Policy) error {
	if !ValidAmount(amount) {
		return ErrInvalidAmount
	}
	after := a.Balance.Sub(amount)
	switch a.Kind {
	case KindSavings:
		if after.LessThan(policy.MinimumBalance) {
			return fmt.Errorf("%w: %s must remain", ErrMinimumBalance, policy.Money(policy.MinimumBalance))
		}
	default:
		if after.LessThan(policy.OverdraftLimit.Neg()) {
			return fmt.Errorf("%w: available %s", ErrOverdraftLimit, policy.Money(a.Balance.Add(policy.OverdraftLimit)))
		}
	}
	return nil
}

func (a *Account) record(now time.Time, format string, args ...any) {
	a.History = append(a.History, "["+now.Format(historyTimeFormat)+"] "+fmt.Sprintf(format, args...))
}
