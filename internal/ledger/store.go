// Package ledger owns the account set: the Store, its text-file codec and
// structural validation.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/id"
	"github.com/passbook-dev/passbook/internal/model"
)

// Store maps account numbers to accounts and issues new numbers.
type Store struct {
	policy   model.Policy
	now      func() time.Time
	accounts map[string]*model.Account
	nextSeq  int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for history entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty Store whose first account will be ACC1001.
func NewStore(policy model.Policy, opts ...Option) *Store {
	s := &Store{
		policy:   policy,
		now:      time.Now,
		accounts: make(map[string]*model.Account),
		nextSeq:  id.FirstSeq,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the rules the store applies.
func (s *Store) Policy() model.Policy {
	return s.policy
}

// NextSeq returns the sequence the next created account will use.
func (s *Store) NextSeq() int {
	return s.nextSeq
}

// CreateAccount opens an account and returns its number.
func (s *Store) CreateAccount(holder string, kind model.Kind, initialDeposit decimal.Decimal) (string, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" || strings.ContainsAny(holder, "\r\n") {
		return "", model.ErrInvalidHolder
	}
	if kind != model.KindSavings && kind != model.KindCurrent {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownKind, kind)
	}
	if initialDeposit.LessThan(s.policy.MinimumOpeningDeposit) {
		return "", fmt.Errorf("%w: %s required", model.ErrBelowMinimumDeposit, s.policy.Money(s.policy.MinimumOpeningDeposit))
	}
	if !model.ValidAmount(initialDeposit) {
		return "", model.ErrInvalidAmount
	}

	number := id.FormatAccountNumber(s.nextSeq)
	s.nextSeq++
	s.accounts[number] = model.NewAccount(number, holder, kind, initialDeposit, s.policy, s.now())
	return number, nil
}

// Deposit adds amount to an account.
func (s *Store) Deposit(number string, amount decimal.Decimal) error {
	acct, err := s.lookup(number)
	if err != nil {
		return err
	}
	return acct.Deposit(amount, s.policy, s.now())
}

// Withdraw removes amount from an account under its kind's policy.
func (s *Store) Withdraw(number string, amount decimal.Decimal) error {
	acct, err := s.lookup(number)
	if err != nil {
		return err
	}
	return acct.Withdraw(amount, s.policy, s.now())
}

// Transfer moves amount between two distinct accounts. Either both
// balances change or neither does.
func (s *Store) Transfer(from, to string, amount decimal.Decimal) error {
	src, err := s.lookup(from)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := s.lookup(to)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if from == to {
		return model.ErrSameAccount
	}
	return src.TransferTo(dst, amount, s.policy, s.now())
}

// BalanceOf returns an account's balance. ok is false if it does not exist.
func (s *Store) BalanceOf(number string) (balance decimal.Decimal, ok bool) {
	acct, found := s.accounts[number]
	if !found {
		return decimal.Zero, false
	}
	return acct.Balance, true
}

// AccrueInterest credits interest to a savings account.
func (s *Store) AccrueInterest(number string) (decimal.Decimal, error) {
	acct, err := s.lookup(number)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.AccrueInterest(s.policy, s.now())
}

// Get returns a snapshot of one account.
func (s *Store) Get(number string) (model.Account, bool) {
	acct, ok := s.accounts[number]
	if !ok {
		return model.Account{}, false
	}
	return acct.Snapshot(), true
}

// History returns a copy of an account's transaction log, oldest first.
func (s *Store) History(number string) ([]string, error) {
	acct, err := s.lookup(number)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), acct.History...), nil
}

// List returns snapshots of every account ordered by account number.
func (s *Store) List() []model.Account {
	numbers := s.numbers()
	out := make([]model.Account, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, s.accounts[n].Snapshot())
	}
	return out
}

// Count returns the number of accounts.
func (s *Store) Count() int {
	return len(s.accounts)
}

func (s *Store) lookup(number string) (*model.Account, error) {
	acct, ok := s.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, number)
	}
	return acct, nil
}

func (s *Store) numbers() []string {
	numbers := make([]string, 0, len(s.accounts))
	for n := range s.accounts {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return id.Less(numbers[i], numbers[j]) })
	return numbers
}

// restore inserts a persisted account without policy checks. It reports
// false if the number is already taken.
func (s *Store) restore(acct *model.Account) bool {
	if _, dup := s.accounts[acct.Number]; dup {
		return false
	}
	s.accounts[acct.Number] = acct
	if seq, err := id.ParseAccountNumber(acct.Number); err == nil && seq >= s.nextSeq {
		s.nextSeq = seq + 1
	}
	return true
}
