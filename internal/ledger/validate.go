package ledger

import (
	"fmt"
	"strings"

	"github.com/passbook-dev/passbook/internal/id"
	"github.com/passbook-dev/passbook/internal/model"
)

// Check identifies which rule a ValidationError breaks.
type Check string

const (
	CheckAccountNumber  Check = "account-number"
	CheckHolder         Check = "holder"
	CheckMinimumBalance Check = "minimum-balance"
	CheckOverdraft      Check = "overdraft"
	CheckCreatedAt      Check = "created-at"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Check       Check
	Account     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.Account, e.Description)
}

// Validate checks the store's structural invariants and the balance rules.
// Balance findings on loaded data are informational: persisted history is
// trusted and may predate a policy change.
func Validate(s *Store) []ValidationError {
	var errs []ValidationError

	for _, key := range s.numbers() {
		acct := s.accounts[key]

		if _, err := id.ParseAccountNumber(acct.Number); err != nil {
			errs = append(errs, ValidationError{
				Check:       CheckAccountNumber,
				Account:     key,
				Description: err.Error(),
			})
		}

		if strings.TrimSpace(acct.Holder) == "" {
			errs = append(errs, ValidationError{
				Check:       CheckHolder,
				Account:     key,
				Description: "holder name is empty",
			})
		}

		if acct.CreatedAt.IsZero() {
			errs = append(errs, ValidationError{
				Check:       CheckCreatedAt,
				Account:     key,
				Description: "creation time is not set",
			})
		}

		switch acct.Kind {
		case model.KindSavings:
			if acct.Balance.LessThan(s.policy.MinimumBalance) {
				errs = append(errs, ValidationError{
					Check:       CheckMinimumBalance,
					Account:     key,
					Description: fmt.Sprintf("balance %s below minimum %s", s.policy.Money(acct.Balance), s.policy.Money(s.policy.MinimumBalance)),
				})
			}
		default:
			if acct.Balance.LessThan(s.policy.OverdraftLimit.Neg()) {
				errs = append(errs, ValidationError{
					Check:       CheckOverdraft,
					Account:     key,
					Description: fmt.Sprintf("balance %s beyond overdraft limit %s", s.policy.Money(acct.Balance), s.policy.Money(s.policy.OverdraftLimit)),
				})
			}
		}
	}

	return errs
}
