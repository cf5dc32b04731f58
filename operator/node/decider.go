package node

import (
	"errors"
	"fmt"

	"github.com/carbonx-fi/avs/ledger"
)

// ErrVerificationDeclined is returned by a Decider that refuses to approve
// a task. The watcher records the task as processed without submitting.
var ErrVerificationDeclined = errors.New("verification declined")

// Decider is the external decision collaborator: given a task it returns
// the result payload (without ProofURI, which the proof store fills in)
// plus the raw evidence bytes backing it.
type Decider interface {
	Decide(task ledger.Task) (ledger.ResponsePayload, []byte, error)
}

// IdentityDecider is the mock identity check: deterministic approval at the
// requested tier, score derived from the subject address.
type IdentityDecider struct{}

func (IdentityDecider) Decide(task ledger.Task) (ledger.ResponsePayload, []byte, error) {
	score := 60 + task.Subject[0]%40
	evidence := fmt.Sprintf("identity-check:%s:%s:%s",
		task.Subject.Hex(), task.RequiredLevel, task.RequestID)
	return ledger.ResponsePayload{
		Level: task.RequiredLevel,
		Score: score,
	}, []byte(evidence), nil
}

// ProjectDecider is the mock carbon project check: credits verified
// deterministically from the project metadata. Tasks with no metadata are
// declined.
type ProjectDecider struct{}

func (ProjectDecider) Decide(task ledger.Task) (ledger.ResponsePayload, []byte, error) {
	if task.Metadata == "" {
		return ledger.ResponsePayload{}, nil, ErrVerificationDeclined
	}
	evidence := fmt.Sprintf("project-check:%s:%s:%s",
		task.Subject.Hex(), task.Category, task.Metadata)
	return ledger.ResponsePayload{
		Level:  ledger.LevelBasic,
		Score:  50 + uint8(len(task.Category)%50),
		Amount: uint64(len(task.Metadata)) * 10,
	}, []byte(evidence), nil
}
