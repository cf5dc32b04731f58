package tests

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carbonx-fi/avs/client"
	"github.com/carbonx-fi/avs/ledger"
	"github.com/carbonx-fi/avs/signer"
)

// The typed client is exercised against a live gateway router end to end,
// including the sentinel mapping across the wire.
func TestClientRoundtrip(t *testing.T) {
	router, ldg, key, operator := newTestRouter(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	cli := client.New(ts.URL)
	ctx := context.Background()

	id, err := cli.LedgerID(ctx)
	require.NoError(t, err)
	require.Equal(t, ldg.ID(), id)

	taskID, err := cli.CreateIdentityTask(ctx, testSubject, ledger.LevelIntermediate, "req-1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), taskID)

	ldg.AdvanceHeight(1)
	height, err := cli.Height(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), height)

	evts, served, err := cli.Events(ctx, 0, height)
	require.NoError(t, err)
	require.Equal(t, height, served)
	require.Len(t, evts, 1)
	require.Equal(t, ledger.EventTaskCreated, evts[0].Type)

	task, err := cli.GetTask(ctx, ledger.KindIdentity, taskID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPending, task.Status)

	payload := ledger.ResponsePayload{Level: ledger.LevelIntermediate, Score: 77, ProofURI: "ipfs://p"}
	msg := signer.TaskMessage(string(ledger.KindIdentity), taskID, testSubject,
		uint8(payload.Level), payload.Score, payload.Amount, payload.ProofURI, ldg.ID())
	sig, err := signer.Sign(key, msg)
	require.NoError(t, err)

	require.NoError(t, cli.Respond(ctx, ledger.KindIdentity, taskID, operator, payload, sig))

	// sentinel errors survive the HTTP boundary
	err = cli.Respond(ctx, ledger.KindIdentity, taskID, operator, payload, sig)
	require.ErrorIs(t, err, ledger.ErrTaskNotPending)

	_, err = cli.GetTask(ctx, ledger.KindIdentity, 99)
	require.ErrorIs(t, err, ledger.ErrTaskNotFound)

	require.True(t, ldg.HasValid(testSubject, ledger.LevelBasic))
}
