package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Operation: "transfer",
		Account:   "ACC1001",
		Target:    "ACC1002",
		Amount:    "200.00",
		Outcome:   OutcomeOK,
		Details:   "balance 800.00",
		RunID:     "3f2b8c1e-0000-4000-8000-000000000001",
	}
}

func logPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "logs", "audit-log.csv")
}

func TestAppend_NewFile(t *testing.T) {
	path := logPath(t)
	err := Append(path, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "transfer", entries[0].Operation)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Operation = "withdraw"
	e2.Outcome = OutcomeRejected
	e2.Details = "policy violation: minimum balance would be breached"
	require.NoError(t, Append(path, []Entry{e2}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "transfer", entries[0].Operation)
	assert.Equal(t, OutcomeRejected, entries[1].Outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "timestamp,operation"), "header written once")
}

func TestRead_RoundTrip(t *testing.T) {
	path := logPath(t)
	original := testEntry()
	original.Details = "holder \"Rao, Sons\" | note"
	require.NoError(t, Append(path, []Entry{original}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Operation, got.Operation)
	assert.Equal(t, original.Account, got.Account)
	assert.Equal(t, original.Target, got.Target)
	assert.Equal(t, original.Amount, got.Amount)
	assert.Equal(t, original.Outcome, got.Outcome)
	assert.Equal(t, original.Details, got.Details)
	assert.Equal(t, original.RunID, got.RunID)
}

func TestRead_NonExistent(t *testing.T) {
	entries, err := Read(logPath(t))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "short"})
	require.Error(t, err)

	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	require.Error(t, err)
}
