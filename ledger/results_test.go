package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHasValidMonotonic(t *testing.T) {
	l, key, operator := newTestLedger(t)

	id, err := l.CreateIdentityTask(testSubject, LevelAdvanced, "r1")
	require.NoError(t, err)
	payload := ResponsePayload{Level: LevelAdvanced, Score: 95}
	sig := signPayload(t, l, key, KindIdentity, id, testSubject, payload)
	require.NoError(t, l.RespondToTask(KindIdentity, id, operator, payload, sig))

	// true at L implies true at every level below L
	require.True(t, l.HasValid(testSubject, LevelAdvanced))
	require.True(t, l.HasValid(testSubject, LevelIntermediate))
	require.True(t, l.HasValid(testSubject, LevelBasic))
	require.True(t, l.HasValid(testSubject, LevelNone))
}

func TestCurrentLevel(t *testing.T) {
	l, key, operator := newTestLedger(t)
	require.Equal(t, LevelNone, l.CurrentLevel(testSubject))

	id, err := l.CreateIdentityTask(testSubject, LevelIntermediate, "r1")
	require.NoError(t, err)
	payload := ResponsePayload{Level: LevelIntermediate, Score: 80}
	sig := signPayload(t, l, key, KindIdentity, id, testSubject, payload)
	require.NoError(t, l.RespondToTask(KindIdentity, id, operator, payload, sig))
	require.Equal(t, LevelIntermediate, l.CurrentLevel(testSubject))
}

func TestResultExpiryAtReadTime(t *testing.T) {
	l, key, operator := newTestLedger(t)
	require.NoError(t, l.SetResultTTL(testOwner, 24*time.Hour))

	id, err := l.CreateIdentityTask(testSubject, LevelBasic, "r1")
	require.NoError(t, err)
	payload := ResponsePayload{Level: LevelBasic, Score: 70}
	sig := signPayload(t, l, key, KindIdentity, id, testSubject, payload)
	require.NoError(t, l.RespondToTask(KindIdentity, id, operator, payload, sig))
	require.True(t, l.HasValid(testSubject, LevelBasic))

	// staleness is a read-time comparison; nothing mutates the record
	l.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	require.False(t, l.HasValid(testSubject, LevelBasic))
	require.Equal(t, LevelNone, l.CurrentLevel(testSubject))

	res, err := l.GetIdentityResult(testSubject)
	require.NoError(t, err)
	require.True(t, res.Active) // record itself untouched
}

func TestRevokeIdentity(t *testing.T) {
	l, key, operator := newTestLedger(t)

	id, err := l.CreateIdentityTask(testSubject, LevelBasic, "r1")
	require.NoError(t, err)
	payload := ResponsePayload{Level: LevelBasic, Score: 70}
	sig := signPayload(t, l, key, KindIdentity, id, testSubject, payload)
	require.NoError(t, l.RespondToTask(KindIdentity, id, operator, payload, sig))

	require.ErrorIs(t, l.RevokeIdentity(testSubject, testSubject), ErrNotOwner)
	require.ErrorIs(t, l.RevokeIdentity(testOwner, testOwner), ErrResultNotFound)

	require.NoError(t, l.RevokeIdentity(testOwner, testSubject))
	require.False(t, l.HasValid(testSubject, LevelBasic))
	require.Equal(t, LevelNone, l.CurrentLevel(testSubject))

	res, err := l.GetIdentityResult(testSubject)
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestLatestIdentityResultWins(t *testing.T) {
	l, key, operator := newTestLedger(t)

	id, err := l.CreateIdentityTask(testSubject, LevelBasic, "r1")
	require.NoError(t, err)
	payload := ResponsePayload{Level: LevelBasic, Score: 60, ProofURI: "ipfs://old"}
	sig := signPayload(t, l, key, KindIdentity, id, testSubject, payload)
	require.NoError(t, l.RespondToTask(KindIdentity, id, operator, payload, sig))

	id2, err := l.CreateIdentityTask(testSubject, LevelAdvanced, "r2")
	require.NoError(t, err)
	payload2 := ResponsePayload{Level: LevelAdvanced, Score: 92, ProofURI: "ipfs://new"}
	sig2 := signPayload(t, l, key, KindIdentity, id2, testSubject, payload2)
	require.NoError(t, l.RespondToTask(KindIdentity, id2, operator, payload2, sig2))

	res, err := l.GetIdentityResult(testSubject)
	require.NoError(t, err)
	require.Equal(t, LevelAdvanced, res.Level)
	require.Equal(t, "ipfs://new", res.ProofURI)
}

func TestDeregisteredOperatorCannotRespond(t *testing.T) {
	l, key, operator := newTestLedger(t)

	id, err := l.CreateIdentityTask(testSubject, LevelBasic, "r1")
	require.NoError(t, err)
	require.NoError(t, l.DeregisterOperator(testOwner, operator))
	require.False(t, l.IsOperator(operator))

	payload := ResponsePayload{Level: LevelBasic, Score: 70}
	sig := signPayload(t, l, key, KindIdentity, id, testSubject, payload)
	require.ErrorIs(t, l.RespondToTask(KindIdentity, id, operator, payload, sig), ErrNotOperator)
}
