package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestAccount(kind Kind, balance string) *Account {
	return NewAccount("ACC1001", "Asha Rao", kind, dec(balance), DefaultPolicy(), testTime)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"SAVINGS", KindSavings},
		{"savings", KindSavings},
		{" Current ", KindCurrent},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKind("fixed")
	require.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestNewAccount_RecordsOpening(t *testing.T) {
	acct := newTestAccount(KindSavings, "1000")
	require.Len(t, acct.History, 1)
	assert.Equal(t, "[2025-01-15 10:30:00] Account created with initial deposit of ₹1000.00", acct.History[0])
	assert.True(t, acct.CreatedAt.Equal(testTime))
}

func TestDeposit_InvalidAmount(t *testing.T) {
	for _, kind := range []Kind{KindSavings, KindCurrent} {
		for _, amount := range []string{"0", "-1", "-0.01", "0.005", "10.001"} {
			acct := newTestAccount(kind, "1000")
			err := acct.Deposit(dec(amount), DefaultPolicy(), testTime)
			require.ErrorIs(t, err, ErrInvalidAmount, "%s deposit %s", kind, amount)
			assert.True(t, acct.Balance.Equal(dec("1000")))
			assert.Len(t, acct.History, 1, "failed deposit must not log")
		}
	}
}

func TestDeposit(t *testing.T) {
	acct := newTestAccount(KindCurrent, "500")
	require.NoError(t, acct.Deposit(dec("250.50"), DefaultPolicy(), testTime))
	assert.True(t, acct.Balance.Equal(dec("750.50")))
	require.Len(t, acct.History, 2)
	assert.Contains(t, acct.History[1], "Deposited ₹250.50 | Balance: ₹750.50")
}

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", true},
		{"100", true},
		{"100.50", true},
		{"100.500", true},
		{"0", false},
		{"-1", false},
		{"0.005", false},
		{"1000.129", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidAmount(dec(tt.amount)), "amount %s", tt.amount)
	}
}

func TestWithdraw_Savings(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		wantErr error
		want    string
	}{
		{"leaves exactly minimum", "1000", "500", nil, "500"},
		{"below minimum", "1000", "600", ErrMinimumBalance, "1000"},
		{"zero amount", "1000", "0", ErrInvalidAmount, "1000"},
		{"negative amount", "1000", "-5", ErrInvalidAmount, "1000"},
		{"fraction of a cent", "1000", "0.005", ErrInvalidAmount, "1000"},
		{"ordinary", "2000", "400", nil, "1600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := newTestAccount(KindSavings, tt.balance)
			err := acct.Withdraw(dec(tt.amount), DefaultPolicy(), testTime)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, acct.History, 1)
			} else {
				require.NoError(t, err)
				assert.Len(t, acct.History, 2)
			}
			assert.True(t, acct.Balance.Equal(dec(tt.want)), "balance %s, want %s", acct.Balance, tt.want)
		})
	}
}

func TestWithdraw_Current(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		wantErr error
		want    string
	}{
		{"into overdraft", "500", "5000", nil, "-4500"},
		{"exactly at floor", "500", "5500", nil, "-5000"},
		{"beyond floor", "500", "5500.01", ErrOverdraftLimit, "500"},
		{"zero amount", "500", "0", ErrInvalidAmount, "500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := newTestAccount(KindCurrent, tt.balance)
			err := acct.Withdraw(dec(tt.amount), DefaultPolicy(), testTime)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrPolicyViolation)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, acct.Balance.Equal(dec(tt.want)), "balance %s, want %s", acct.Balance, tt.want)
		})
	}
}

func TestWithdraw_CurrentScenario(t *testing.T) {
	acct := newTestAccount(KindCurrent, "500")

	require.NoError(t, acct.Withdraw(dec("5000"), DefaultPolicy(), testTime))
	assert.True(t, acct.Balance.Equal(dec("-4500")))
	assert.True(t, acct.IsOverdrawn())
	assert.Contains(t, acct.History[1], "(Overdraft)")
	assert.Contains(t, acct.History[1], "Balance: -₹4500.00")

	err := acct.Withdraw(dec("600"), DefaultPolicy(), testTime)
	require.ErrorIs(t, err, ErrOverdraftLimit)
	assert.True(t, acct.Balance.Equal(dec("-4500")))
	assert.Len(t, acct.History, 2)
}

func TestTransferTo(t *testing.T) {
	a := newTestAccount(KindSavings, "1000")
	b := NewAccount("ACC1002", "Ben Ode", KindCurrent, dec("500"), DefaultPolicy(), testTime)

	require.NoError(t, a.TransferTo(b, dec("200"), DefaultPolicy(), testTime))
	assert.True(t, a.Balance.Equal(dec("800")))
	assert.True(t, b.Balance.Equal(dec("700")))
	require.Len(t, a.History, 2)
	require.Len(t, b.History, 2)
	assert.Contains(t, a.History[1], "Transferred ₹200.00 to A/C ACC1002")
	assert.Contains(t, b.History[1], "Received ₹200.00 from A/C ACC1001")
}

func TestTransferTo_Failure(t *testing.T) {
	a := newTestAccount(KindSavings, "1000")
	b := NewAccount("ACC1002", "Ben Ode", KindCurrent, dec("500"), DefaultPolicy(), testTime)

	err := a.TransferTo(b, dec("501"), DefaultPolicy(), testTime)
	require.ErrorIs(t, err, ErrMinimumBalance)
	assert.True(t, a.Balance.Equal(dec("1000")))
	assert.True(t, b.Balance.Equal(dec("500")))
	assert.Len(t, a.History, 1)
	assert.Len(t, b.History, 1)
}

func TestAccrueInterest(t *testing.T) {
	acct := newTestAccount(KindSavings, "1000")
	interest, err := acct.AccrueInterest(DefaultPolicy(), testTime)
	require.NoError(t, err)
	assert.True(t, interest.Equal(dec("40")))
	assert.Equal(t, "1040.00", acct.Balance.StringFixed(2))
	require.Len(t, acct.History, 2)
	assert.Contains(t, acct.History[1], "Interest credited ₹40.00 @ 4% | Balance: ₹1040.00")
}

func TestAccrueInterest_RoundsToCents(t *testing.T) {
	acct := newTestAccount(KindSavings, "1234.56")
	interest, err := acct.AccrueInterest(DefaultPolicy(), testTime)
	require.NoError(t, err)
	assert.Equal(t, "49.38", interest.StringFixed(2))
	assert.True(t, acct.Balance.Equal(dec("1283.94")))
}

func TestAccrueInterest_Current(t *testing.T) {
	acct := newTestAccount(KindCurrent, "1000")
	_, err := acct.AccrueInterest(DefaultPolicy(), testTime)
	require.ErrorIs(t, err, ErrWrongKind)
	assert.True(t, acct.Balance.Equal(dec("1000")))
	assert.Len(t, acct.History, 1)
}

func TestAvailable(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, newTestAccount(KindSavings, "1200").Available(policy).Equal(dec("700")))
	assert.True(t, newTestAccount(KindCurrent, "500").Available(policy).Equal(dec("5500")))

	overdrawn := newTestAccount(KindCurrent, "500")
	require.NoError(t, overdrawn.Withdraw(dec("5500"), policy, testTime))
	assert.True(t, overdrawn.Available(policy).IsZero())
}

func TestSnapshot_Independent(t *testing.T) {
	acct := newTestAccount(KindSavings, "1000")
	snap := acct.Snapshot()
	snap.History[0] = "tampered"
	snap.Balance = dec("1")

	assert.NotEqual(t, "tampered", acct.History[0])
	assert.True(t, acct.Balance.Equal(dec("1000")))
}
