package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksb-dev-1/careerly-new/internal/model"
)

func TestCanTransitionForward(t *testing.T) {
	allowed := [][2]string{
		{model.ApplicationStatusPending, model.ApplicationStatusApproved},
		{model.ApplicationStatusPending, model.ApplicationStatusRejected},
		{model.ApplicationStatusApproved, model.ApplicationStatusOffered},
		{model.ApplicationStatusApproved, model.ApplicationStatusRejected},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}
}

func TestCannotReopenTerminalStates(t *testing.T) {
	terminal := []string{model.ApplicationStatusOffered, model.ApplicationStatusRejected}
	all := []string{
		model.ApplicationStatusPending,
		model.ApplicationStatusApproved,
		model.ApplicationStatusOffered,
		model.ApplicationStatusRejected,
	}
	for _, from := range terminal {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestCannotSkipOrReverse(t *testing.T) {
	assert.False(t, CanTransition(model.ApplicationStatusPending, model.ApplicationStatusOffered))
	assert.False(t, CanTransition(model.ApplicationStatusApproved, model.ApplicationStatusPending))
	assert.False(t, CanTransition(model.ApplicationStatusRejected, model.ApplicationStatusApproved))
	assert.False(t, CanTransition(model.ApplicationStatusPending, model.ApplicationStatusPending))
}

func TestUnknownStatusNeverTransitions(t *testing.T) {
	assert.False(t, CanTransition("LOST", model.ApplicationStatusApproved))
	assert.False(t, CanTransition(model.ApplicationStatusPending, "LOST"))
	assert.False(t, knownStatus("LOST"))
	assert.True(t, knownStatus(model.ApplicationStatusPending))
}
