package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApprovalLogNormalizedDefaultsTimestamp(t *testing.T) {
	before := time.Now().UTC()
	got := ApprovalLog{Module: "PO", RefID: 1, ActorID: 2, Action: ApprovalSubmit}.normalized()
	assert.False(t, got.At.IsZero())
	assert.False(t, got.At.Before(before))
}

func TestApprovalLogNormalizedKeepsExplicitTimestamp(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got := ApprovalLog{Module: "PO", RefID: 1, ActorID: 2, Action: ApprovalApprove, At: at}.normalized()
	assert.Equal(t, at, got.At)
}
