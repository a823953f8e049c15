package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passbook-dev/passbook/internal/model"
)

func checks(errs []ValidationError) []Check {
	var out []Check
	for _, e := range errs {
		out = append(out, e.Check)
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	s := populatedStore(t)
	assert.Empty(t, Validate(s))
}

func TestValidate_BadNumber(t *testing.T) {
	s := newTestStore()
	acct := model.Restore("LEGACY-7", "Asha Rao", model.KindCurrent, dec("10"), testTime, nil)
	require.True(t, s.restore(acct))

	assert.Equal(t, []Check{CheckAccountNumber}, checks(Validate(s)))
}

func TestValidate_BalanceRules(t *testing.T) {
	s := newTestStore()
	require.True(t, s.restore(model.Restore("ACC1001", "Asha Rao", model.KindSavings, dec("499.99"), testTime, nil)))
	require.True(t, s.restore(model.Restore("ACC1002", "Ben Ode", model.KindCurrent, dec("-5000.01"), testTime, nil)))
	require.True(t, s.restore(model.Restore("ACC1003", "Cara Lim", model.KindCurrent, dec("-5000"), testTime, nil)))

	assert.Equal(t, []Check{CheckMinimumBalance, CheckOverdraft}, checks(Validate(s)))
}

func TestValidate_HolderAndCreatedAt(t *testing.T) {
	s := newTestStore()
	require.True(t, s.restore(model.Restore("ACC1001", "Asha Rao", model.KindCurrent, dec("10"), time.Time{}, nil)))
	require.True(t, s.restore(model.Restore("ACC1002", " ", model.KindCurrent, dec("10"), testTime, nil)))

	errs := Validate(s)
	assert.Equal(t, []Check{CheckCreatedAt, CheckHolder}, checks(errs))
	assert.Equal(t, "holder [ACC1002]: holder name is empty", errs[1].Error())
}
