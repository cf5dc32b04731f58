package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/carbonx-fi/avs/gateway/core"
	"github.com/carbonx-fi/avs/ledger"
)

// Level carries no required binding: a zero level must reach the ledger so
// the caller sees its invalid-requirement error, not a validator message.
type createIdentityPayload struct {
	Subject   string `json:"subject" binding:"required"`
	Level     uint8  `json:"level"`
	RequestID string `json:"requestId"`
}

// CreateIdentityTask opens an identity verification task.
func (s *Server) CreateIdentityTask(c *gin.Context) {
	var payload createIdentityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(payload.Subject) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject address"})
		return
	}

	taskID, err := s.Ledger.CreateIdentityTask(
		common.HexToAddress(payload.Subject), ledger.Level(payload.Level), payload.RequestID)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}
	if s.Metrics != nil {
		s.Metrics.TasksCreated.WithLabelValues(string(ledger.KindIdentity)).Inc()
	}
	c.JSON(http.StatusOK, gin.H{"taskId": taskID})
}

type createProjectPayload struct {
	Requester string `json:"requester"`
	Subject   string `json:"subject" binding:"required"`
	Category  string `json:"category" binding:"required"`
	Metadata  string `json:"metadata"`
	RequestID string `json:"requestId"`
}

// CreateProjectTask opens a carbon project verification task.
func (s *Server) CreateProjectTask(c *gin.Context) {
	var payload createProjectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(payload.Subject) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject address"})
		return
	}

	taskID, err := s.Ledger.CreateProjectTask(
		common.HexToAddress(payload.Requester), common.HexToAddress(payload.Subject),
		payload.Category, payload.Metadata, payload.RequestID)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}
	if s.Metrics != nil {
		s.Metrics.TasksCreated.WithLabelValues(string(ledger.KindProject)).Inc()
	}
	c.JSON(http.StatusOK, gin.H{"taskId": taskID})
}

// TaskId likewise passes through unchecked; the ledger reports a zero or
// unknown id as task-not-found.
type respondPayload struct {
	Kind      string                 `json:"kind" binding:"required"`
	TaskId    uint64                 `json:"taskId"`
	Operator  string                 `json:"operator" binding:"required"`
	Payload   ledger.ResponsePayload `json:"payload"`
	Signature string                 `json:"signature" binding:"required"`
}

// Respond validates and commits an operator response, then pushes the
// committed record onto the relay queue.
func (s *Server) Respond(c *gin.Context) {
	var payload respondPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := ledger.TaskKind(payload.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task kind"})
		return
	}
	if !common.IsHexAddress(payload.Operator) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operator address"})
		return
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(payload.Signature, "0x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidSignature.Error()})
		return
	}

	operator := common.HexToAddress(payload.Operator)
	if err := s.Ledger.RespondToTask(kind, payload.TaskId, operator, payload.Payload, sig); err != nil {
		if s.Metrics != nil {
			s.Metrics.ResponsesRejected.WithLabelValues(payload.Kind, err.Error()).Inc()
		}
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}
	if s.Metrics != nil {
		s.Metrics.ResponsesAccepted.WithLabelValues(payload.Kind).Inc()
	}

	if s.Redis != nil {
		record := core.ResponseRecord{
			Kind:      payload.Kind,
			TaskId:    payload.TaskId,
			Operator:  operator.Hex(),
			Level:     uint8(payload.Payload.Level),
			Amount:    payload.Payload.Amount,
			Timestamp: time.Now().Unix(),
		}
		data, err := json.Marshal(record)
		if err == nil {
			err = s.Redis.LPush(c, core.PkResponseQueue, data).Err()
		}
		if err != nil {
			// The ledger commit stands; the relay entry is best effort.
			s.Log.Errorw("failed to enqueue response record", "taskId", payload.TaskId, "err", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetTask reads one task record.
func (s *Server) GetTask(c *gin.Context) {
	kind := ledger.TaskKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task kind"})
		return
	}
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := s.Ledger.GetTask(kind, taskID)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}
