package ledger

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/carbonx-fi/avs/signer"
)

// TaskKind names one of the two verification protocols sharing the task
// lifecycle: operator-attested identity (KYC) checks and carbon project
// credit checks.
type TaskKind string

const (
	KindIdentity TaskKind = "identity"
	KindProject  TaskKind = "project"
)

// Valid reports whether k is a known task kind.
func (k TaskKind) Valid() bool {
	return k == KindIdentity || k == KindProject
}

// Level is the ordered identity verification tier.
type Level uint8

const (
	LevelNone Level = iota
	LevelBasic
	LevelIntermediate
	LevelAdvanced
)

func (lv Level) String() string {
	switch lv {
	case LevelBasic:
		return "basic"
	case LevelIntermediate:
		return "intermediate"
	case LevelAdvanced:
		return "advanced"
	default:
		return "none"
	}
}

// TaskStatus is the lifecycle state of a task. PENDING is the only
// non-terminal state; REJECTED is reserved for an explicit operator
// rejection path and is never set by the current flow.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusCompleted TaskStatus = "COMPLETED"
	StatusExpired   TaskStatus = "EXPIRED"
	StatusRejected  TaskStatus = "REJECTED"
)

type Task struct {
	Kind          TaskKind       `json:"kind"`
	ID            uint64         `json:"taskId"`
	Subject       common.Address `json:"subject"`
	RequiredLevel Level          `json:"requiredLevel,omitempty"`
	Category      string         `json:"category,omitempty"`
	Metadata      string         `json:"metadata,omitempty"`
	CreatedAt     uint64         `json:"createdAt"`
	Status        TaskStatus     `json:"status"`
	RequestID     string         `json:"requestId"`
}

// ResponsePayload carries the operator-signed result fields. For identity
// tasks Level is the achieved tier; for project tasks it is the generic
// verified status and Amount the verified credit units.
type ResponsePayload struct {
	Level    Level  `json:"level"`
	Score    uint8  `json:"score"`
	Amount   uint64 `json:"amount"`
	ProofURI string `json:"proofUri"`
}

// CreateIdentityTask opens a PENDING identity task for subject at the
// requested tier and publishes a TaskCreated event for watchers.
func (l *Ledger) CreateIdentityTask(subject common.Address, level Level, requestID string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level == LevelNone || level > LevelAdvanced {
		return 0, ErrInvalidRequirement
	}
	if l.hasValidLocked(subject, level) {
		return 0, ErrAlreadySatisfied
	}

	task := &Task{
		Kind:          KindIdentity,
		Subject:       subject,
		RequiredLevel: level,
		RequestID:     requestID,
	}
	l.appendTaskLocked(task, map[string]string{
		"level": strconv.Itoa(int(level)),
	})
	return task.ID, nil
}

// CreateProjectTask opens a PENDING project verification task. When the
// requester set is non-empty, only authorized requesters may open one.
func (l *Ledger) CreateProjectTask(requester, subject common.Address, category, metadata, requestID string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if category == "" {
		return 0, ErrInvalidRequirement
	}
	if len(l.requesters) > 0 && !l.requesters[requester] {
		return 0, ErrNotRequester
	}

	task := &Task{
		Kind:      KindProject,
		Subject:   subject,
		Category:  category,
		Metadata:  metadata,
		RequestID: requestID,
	}
	l.appendTaskLocked(task, map[string]string{
		"category": category,
	})
	return task.ID, nil
}

func (l *Ledger) appendTaskLocked(task *Task, extra map[string]string) {
	l.seq[task.Kind]++
	task.ID = l.seq[task.Kind]
	task.CreatedAt = l.height
	task.Status = StatusPending
	l.tasks[task.Kind][task.ID] = task

	attrs := map[string]string{
		"kind":      string(task.Kind),
		"taskId":    strconv.FormatUint(task.ID, 10),
		"subject":   task.Subject.Hex(),
		"requestId": task.RequestID,
	}
	for k, v := range extra {
		attrs[k] = v
	}
	l.appendEventLocked(EventTaskCreated, attrs)
}

// RespondToTask validates and commits an operator response. Checks run in a
// fixed order; the lazy EXPIRED transition is the one mutation that survives
// a failed call.
func (l *Ledger) RespondToTask(kind TaskKind, taskID uint64, operator common.Address, payload ResponsePayload, sig []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks, ok := l.tasks[kind]
	if !ok {
		return ErrTaskNotFound
	}
	task, ok := tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	if task.Status != StatusPending {
		return ErrTaskNotPending
	}
	if l.height-task.CreatedAt > l.expiryThreshold {
		task.Status = StatusExpired
		return ErrTaskExpired
	}

	msg := signer.TaskMessage(string(kind), taskID, task.Subject,
		uint8(payload.Level), payload.Score, payload.Amount, payload.ProofURI, l.id)
	recovered, err := signer.Recover(msg, sig)
	if err != nil || recovered != operator {
		return ErrInvalidSignature
	}
	if !l.operators[operator] {
		return ErrNotOperator
	}

	task.Status = StatusCompleted
	l.commitResultLocked(task, operator, payload)
	l.appendEventLocked(EventTaskResponded, map[string]string{
		"kind":     string(kind),
		"taskId":   strconv.FormatUint(taskID, 10),
		"subject":  task.Subject.Hex(),
		"operator": operator.Hex(),
		"level":    strconv.Itoa(int(payload.Level)),
		"amount":   strconv.FormatUint(payload.Amount, 10),
	})
	return nil
}

// GetTask returns a copy of the task record.
func (l *Ledger) GetTask(kind TaskKind, taskID uint64) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks, ok := l.tasks[kind]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	task, ok := tasks[taskID]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *task, nil
}
