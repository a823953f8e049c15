package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an account number is not in the store.
var ErrNotFound = errors.New("account not found")

// ErrPolicyViolation is wrapped by every balance-rule failure.
var ErrPolicyViolation = errors.New("policy violation")

var (
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be positive whole cents", ErrPolicyViolation)
	ErrBelowMinimumDeposit = fmt.Errorf("%w: initial deposit below minimum", ErrPolicyViolation)
	ErrMinimumBalance      = fmt.Errorf("%w: minimum balance would be breached", ErrPolicyViolation)
	ErrOverdraftLimit      = fmt.Errorf("%w: overdraft limit exceeded", ErrPolicyViolation)
	ErrSameAccount         = fmt.Errorf("%w: cannot transfer to the same account", ErrPolicyViolation)
	ErrWrongKind           = fmt.Errorf("%w: interest is only available for savings accounts", ErrPolicyViolation)
	ErrUnknownKind         = fmt.Errorf("%w: unknown account kind", ErrPolicyViolation)
	ErrInvalidHolder       = fmt.Errorf("%w: holder name is required", ErrPolicyViolation)
)
