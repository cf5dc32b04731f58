package tests

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/carbonx-fi/avs/gateway/api"
	"github.com/carbonx-fi/avs/ledger"
	"github.com/carbonx-fi/avs/signer"
)

var (
	testLedgerID = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testOwner    = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	testSubject  = common.HexToAddress("0x1000000000000000000000000000000000000001")
)

func newTestRouter(t *testing.T) (*gin.Engine, *ledger.Ledger, *ecdsa.PrivateKey, common.Address) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ldg := ledger.New(testLedgerID, testOwner)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	operator := crypto.PubkeyToAddress(key.PublicKey)
	require.NoError(t, ldg.RegisterOperator(testOwner, operator))

	srv := &api.Server{
		Ledger:  ldg,
		Log:     zap.NewNop().Sugar(),
		Metrics: api.NewMetrics(),
	}
	router := gin.New()
	srv.SetupRoutes(router)
	return router, ldg, key, operator
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signResponse(t *testing.T, key *ecdsa.PrivateKey, kind ledger.TaskKind, taskID uint64, subject common.Address, payload ledger.ResponsePayload) string {
	t.Helper()
	msg := signer.TaskMessage(string(kind), taskID, subject,
		uint8(payload.Level), payload.Score, payload.Amount, payload.ProofURI, testLedgerID)
	sig, err := signer.Sign(key, msg)
	require.NoError(t, err)
	return hex.EncodeToString(sig)
}

func TestIdentityTaskLifecycleOverHTTP(t *testing.T) {
	router, ldg, key, operator := newTestRouter(t)
	rand.Seed(uint64(time.Now().UnixNano()))
	requestID := fmt.Sprintf("req-%d", rand.Intn(100000))

	w := doJSON(t, router, http.MethodPost, "/api/tasks/identity", gin.H{
		"subject":   testSubject.Hex(),
		"level":     2,
		"requestId": requestID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		TaskID uint64 `json:"taskId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, uint64(1), created.TaskID)

	ldg.AdvanceHeight(1)
	payload := ledger.ResponsePayload{Level: ledger.LevelIntermediate, Score: 88, ProofURI: "ipfs://proof"}
	w = doJSON(t, router, http.MethodPost, "/api/tasks/respond", gin.H{
		"kind":      "identity",
		"taskId":    created.TaskID,
		"operator":  operator.Hex(),
		"payload":   payload,
		"signature": signResponse(t, key, ledger.KindIdentity, created.TaskID, testSubject, payload),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/tasks/identity/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var task ledger.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Equal(t, ledger.StatusCompleted, task.Status)

	w = doJSON(t, router, http.MethodGet, "/api/results/identity/"+testSubject.Hex()+"?min=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		CurrentLevel uint8 `json:"currentLevel"`
		HasValid     bool  `json:"hasValid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.True(t, res.HasValid)
	require.Equal(t, uint8(2), res.CurrentLevel)
}

func TestSecondResponseRejectedOverHTTP(t *testing.T) {
	router, ldg, key, operator := newTestRouter(t)

	taskID, err := ldg.CreateIdentityTask(testSubject, ledger.LevelBasic, "r1")
	require.NoError(t, err)

	payload := ledger.ResponsePayload{Level: ledger.LevelBasic, Score: 70}
	respond := func() *httptest.ResponseRecorder {
		return doJSON(t, router, http.MethodPost, "/api/tasks/respond", gin.H{
			"kind":      "identity",
			"taskId":    taskID,
			"operator":  operator.Hex(),
			"payload":   payload,
			"signature": signResponse(t, key, ledger.KindIdentity, taskID, testSubject, payload),
		})
	}

	require.Equal(t, http.StatusOK, respond().Code)

	w := respond()
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, ledger.ErrTaskNotPending.Error(), body.Error)
}

func TestRespondBadSignatureOverHTTP(t *testing.T) {
	router, ldg, _, operator := newTestRouter(t)

	taskID, err := ldg.CreateIdentityTask(testSubject, ledger.LevelBasic, "r1")
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/tasks/respond", gin.H{
		"kind":      "identity",
		"taskId":    taskID,
		"operator":  operator.Hex(),
		"payload":   ledger.ResponsePayload{Level: ledger.LevelBasic},
		"signature": "deadbeef",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, ledger.ErrInvalidSignature.Error(), body.Error)
}

func TestCreateIdentityTaskLevelNoneOverHTTP(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/tasks/identity", gin.H{
		"subject": testSubject.Hex(),
		"level":   0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, ledger.ErrInvalidRequirement.Error(), body.Error)
}

func TestRespondZeroTaskIdOverHTTP(t *testing.T) {
	router, _, _, operator := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/tasks/respond", gin.H{
		"kind":      "identity",
		"taskId":    0,
		"operator":  operator.Hex(),
		"payload":   ledger.ResponsePayload{Level: ledger.LevelBasic},
		"signature": "deadbeef",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, ledger.ErrTaskNotFound.Error(), body.Error)
}

func TestGetTaskNotFoundOverHTTP(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/tasks/identity/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/tasks/bogus/1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventsAndInfoOverHTTP(t *testing.T) {
	router, ldg, _, _ := newTestRouter(t)

	ldg.AdvanceHeight(1)
	_, err := ldg.CreateProjectTask(testOwner, testSubject, "reforestation", "ha:12", "r1")
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info struct {
		LedgerID string `json:"ledgerId"`
		Height   uint64 `json:"height"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Equal(t, testLedgerID.Hex(), info.LedgerID)
	require.Equal(t, uint64(1), info.Height)

	// the creation event seals with the next block
	ldg.AdvanceHeight(1)
	w = doJSON(t, router, http.MethodGet, "/api/events?from=0&to=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events struct {
		Events []ledger.Event `json:"events"`
		To     uint64         `json:"to"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events.Events, 1)
	require.Equal(t, ledger.EventTaskCreated, events.Events[0].Type)
	require.Equal(t, uint64(2), events.To)
}

func TestOperatorEndpoint(t *testing.T) {
	router, _, _, operator := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/operators/"+operator.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Registered bool `json:"registered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Registered)

	w = doJSON(t, router, http.MethodGet, "/api/operators/"+testSubject.Hex(), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.False(t, body.Registered)
}
