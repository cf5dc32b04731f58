package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Result is a committed verification outcome. Identity results are keyed by
// subject (latest wins) and carry an ExpiresAt; project results are keyed by
// task ID and do not expire.
type Result struct {
	Kind       TaskKind       `json:"kind"`
	TaskID     uint64         `json:"taskId"`
	Subject    common.Address `json:"subject"`
	Level      Level          `json:"level"`
	Score      uint8          `json:"score"`
	Amount     uint64         `json:"amount"`
	ProofURI   string         `json:"proofUri"`
	VerifiedAt time.Time      `json:"verifiedAt"`
	VerifiedBy common.Address `json:"verifiedBy"`
	ExpiresAt  time.Time      `json:"expiresAt,omitempty"`
	Active     bool           `json:"active"`
}

func (l *Ledger) commitResultLocked(task *Task, operator common.Address, payload ResponsePayload) {
	res := &Result{
		Kind:       task.Kind,
		TaskID:     task.ID,
		Subject:    task.Subject,
		Level:      payload.Level,
		Score:      payload.Score,
		Amount:     payload.Amount,
		ProofURI:   payload.ProofURI,
		VerifiedAt: l.now(),
		VerifiedBy: operator,
		Active:     true,
	}
	switch task.Kind {
	case KindIdentity:
		res.ExpiresAt = res.VerifiedAt.Add(l.resultTTL)
		l.identityResults[task.Subject] = res
	case KindProject:
		l.projectResults[task.ID] = res
	}
}

// GetIdentityResult returns the latest identity result for subject,
// including inactive or expired ones; staleness is the caller's check.
func (l *Ledger) GetIdentityResult(subject common.Address) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.identityResults[subject]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return *res, nil
}

// GetProjectResult returns the result committed for a project task.
func (l *Ledger) GetProjectResult(taskID uint64) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.projectResults[taskID]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return *res, nil
}

// HasValid reports whether subject holds an active, unexpired identity
// verification at or above min.
func (l *Ledger) HasValid(subject common.Address, min Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasValidLocked(subject, min)
}

func (l *Ledger) hasValidLocked(subject common.Address, min Level) bool {
	res, ok := l.identityResults[subject]
	if !ok {
		return false
	}
	return res.Active && res.ExpiresAt.After(l.now()) && res.Level >= min
}

// CurrentLevel returns the subject's live verification tier, or LevelNone
// when no active, unexpired result exists. It never fails.
func (l *Ledger) CurrentLevel(subject common.Address) Level {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.identityResults[subject]
	if !ok || !res.Active || !res.ExpiresAt.After(l.now()) {
		return LevelNone
	}
	return res.Level
}

// RevokeIdentity deactivates the subject's identity result. Owner only.
func (l *Ledger) RevokeIdentity(caller, subject common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	res, ok := l.identityResults[subject]
	if !ok {
		return ErrResultNotFound
	}
	res.Active = false
	return nil
}
