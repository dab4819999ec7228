package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredSlots(t *testing.T) {
	assert.Equal(t, []string{SlotCustomerName, SlotItems}, RequiredSlots("order_request"))
	assert.Equal(t, []string{SlotCustomerName, SlotPartySize, SlotDateTime}, RequiredSlots("reservation_request"))
	assert.Empty(t, RequiredSlots("menu_inquiry"))
	assert.Empty(t, RequiredSlots("never_heard_of_it"))
}

func TestZeroRequirement(t *testing.T) {
	for _, intent := range []string{"menu_inquiry", "general_question", "complaint", "unclear", "other", "unknown_intent"} {
		assert.True(t, ZeroRequirement(intent), intent)
	}
	assert.False(t, ZeroRequirement("order_request"))
	assert.False(t, ZeroRequirement("reservation_request"))
}

func TestNewSession(t *testing.T) {
	s := NewSession("abc")
	assert.Equal(t, "abc", s.SessionID)
	assert.Equal(t, StatusGathering, s.Status)
	assert.NotNil(t, s.CollectedSlots)
	assert.Nil(t, s.CustomerID)

	s.AppendTurn(RoleUser, "hello")
	assert.Len(t, s.TurnHistory, 1)
	assert.False(t, s.TurnHistory[0].At.IsZero())
}
