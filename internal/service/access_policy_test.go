package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskledger/taskledger-api/internal/domain"
)

func TestAccessPolicyCanAccess(t *testing.T) {
	t.Parallel()

	policy := NewAccessPolicy()
	owner := &domain.Actor{ID: uuid.New(), Username: "owner", Role: domain.RoleUser}
	stranger := &domain.Actor{ID: uuid.New(), Username: "stranger", Role: domain.RoleUser}
	admin := &domain.Actor{ID: uuid.New(), Username: "admin", Role: domain.RoleAdmin}

	item, err := domain.NewItem(owner.ID, "Owned item", "", domain.PriorityLow, nil, nil)
	require.NoError(t, err)

	assert.True(t, policy.CanAccess(owner, item))
	assert.False(t, policy.CanAccess(stranger, item))
	assert.True(t, policy.CanAccess(admin, item))

	assert.False(t, policy.CanAccess(nil, item))
	assert.False(t, policy.CanAccess(owner, nil))
	assert.False(t, policy.CanAccess(nil, nil))
}
