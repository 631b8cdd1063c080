package testing

import (
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/stretchr/testify/require"
)

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, tx.TesSUCCESS.String(), result.Code)
}

// RequireTxFail asserts that a transaction failed with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expected tx.Result) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expected)
	require.Equal(t, expected.String(), result.Code,
		"Expected failure code %s, got %s: %s", expected, result.Code, result.Message)
}

// RequireBalance asserts that an account has the expected native balance.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireTokenBalance asserts acc's balance of mint.
func RequireTokenBalance(t *testing.T, env *TestEnv, acc *Account, mint string, expected uint64) {
	t.Helper()
	actual := env.TokenBalance(acc, mint)
	require.Equal(t, expected, actual,
		"Account %s token balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

func RequireAccountExists(t *testing.T, env *TestEnv, acc *Account) {
	t.Helper()
	require.True(t, env.Exists(acc),
		"Expected account %s to exist, but it does not", acc.Name)
}

// RequireSequence asserts that an account has the expected sequence number.
func RequireSequence(t *testing.T, env *TestEnv, acc *Account, expected uint32) {
	t.Helper()
	actual := env.Seq(acc)
	require.Equal(t, expected, actual,
		"Account %s sequence mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireOwnerCount asserts that an account has the expected owner count.
func RequireOwnerCount(t *testing.T, env *TestEnv, acc *Account, expected uint32) {
	t.Helper()
	info := env.AccountInfo(acc)
	require.NotNil(t, info, "Account %s does not exist", acc.Name)
	require.Equal(t, expected, info.OwnerCount,
		"Account %s owner count mismatch: expected %d, got %d", acc.Name, expected, info.OwnerCount)
}

// RequireStatus asserts the attendee record of owner for event.
func RequireStatus(t *testing.T, env *TestEnv, event string, owner *Account, expected sle.AttendeeStatus) {
	t.Helper()
	att := env.Attendee(event, owner)
	require.NotNil(t, att, "no attendee record for %s", owner.Name)
	require.Equal(t, expected, att.Status)
}

// AssertBalanceChange runs a function and asserts the expected balance change.
func AssertBalanceChange(t *testing.T, env *TestEnv, acc *Account, expectedChange int64, fn func()) {
	t.Helper()
	before := env.Balance(acc)
	fn()
	after := env.Balance(acc)

	actualChange := int64(after) - int64(before)
	require.Equal(t, expectedChange, actualChange,
		"Account %s balance change mismatch: expected %d, got %d (before: %d, after: %d)",
		acc.Name, expectedChange, actualChange, before, after)
}

// AssertNoBalanceChange runs a function and asserts the balance stays the same.
func AssertNoBalanceChange(t *testing.T, env *TestEnv, acc *Account, fn func()) {
	t.Helper()
	AssertBalanceChange(t, env, acc, 0, fn)
}
