package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/services/payments/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "2001", "Insufficient funds on account")
	require.NoError(t, err)

	var d decision.Decision
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, decision.CategoryCustomerError, d.Category)
	assert.Equal(t, decision.NextActionAskCustomerToCheckFunds, d.NextAction)
	assert.True(t, d.IsFinal)
}

func TestClassifyCommand_RequiresCode(t *testing.T) {
	_, err := execute(t, "classify")
	assert.Error(t, err)
}

func TestPendingCommand_MemoryStoreIsEmpty(t *testing.T) {
	t.Setenv("PAYMENTS_PENDING_STORE", "memory")
	t.Setenv("PAYMENTS_AUDIT_STORE", "memory")
	t.Setenv("PAYMENTS_EVENT_BROKER", "none")

	out, err := execute(t, "pending")

	require.NoError(t, err)
	assert.Contains(t, out, "No pending transactions")
}

func TestReconcileCommand_MemoryStore(t *testing.T) {
	t.Setenv("PAYMENTS_PENDING_STORE", "memory")
	t.Setenv("PAYMENTS_AUDIT_STORE", "memory")
	t.Setenv("PAYMENTS_EVENT_BROKER", "none")

	out, err := execute(t, "reconcile", "--grace", "0s")

	require.NoError(t, err)
	assert.Contains(t, out, `"Scanned": 0`)
}

func TestPrintPending(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var out bytes.Buffer

	printPending(&out, []models.PendingTransaction{
		{TransactionID: "T1", ClientReference: "ref1", CreatedAt: now.Add(-90 * time.Second)},
	}, now)

	assert.Contains(t, out.String(), "T1")
	assert.Contains(t, out.String(), "1m30s")
	assert.Contains(t, out.String(), "1 pending")
}
