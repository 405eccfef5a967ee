package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuditFields_TouchKeepsCreation(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	audit := domain.NewAuditFields("alice", created)

	later := created.Add(time.Hour)
	audit.Touch("bob", later)

	assert.Equal(t, created, audit.CreatedAt)
	assert.Equal(t, "alice", audit.CreatedBy)
	assert.Equal(t, later, audit.LastUpdatedAt)
	assert.Equal(t, "bob", audit.LastUpdatedBy)
}
