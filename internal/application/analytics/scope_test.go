package analytics

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScope(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()
	foreign := uuid.New()

	admin := Caller{UserID: uuid.New(), Role: RoleAdmin}
	member := Caller{UserID: uuid.New(), Role: RoleMember, ProjectIDs: []uuid.UUID{projectA, projectB}}

	t.Run("admin without request sees everything", func(t *testing.T) {
		scope, err := ResolveScope(admin, "")
		require.NoError(t, err)
		assert.True(t, scope.All)
	})

	t.Run("admin with request narrows to that project", func(t *testing.T) {
		scope, err := ResolveScope(admin, projectA.String())
		require.NoError(t, err)
		assert.False(t, scope.All)
		assert.Equal(t, []uuid.UUID{projectA}, scope.ProjectIDs)
	})

	t.Run("member without request gets assigned projects", func(t *testing.T) {
		scope, err := ResolveScope(member, "")
		require.NoError(t, err)
		assert.False(t, scope.All)
		assert.ElementsMatch(t, []uuid.UUID{projectA, projectB}, scope.ProjectIDs)
	})

	t.Run("member requesting assigned project narrows to it", func(t *testing.T) {
		scope, err := ResolveScope(member, projectB.String())
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{projectB}, scope.ProjectIDs)
	})

	t.Run("member requesting foreign project is forbidden", func(t *testing.T) {
		_, err := ResolveScope(member, foreign.String())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})

	t.Run("member with no assignments matches nothing", func(t *testing.T) {
		unassigned := Caller{UserID: uuid.New(), Role: RoleMember}
		scope, err := ResolveScope(unassigned, "")
		require.NoError(t, err)
		assert.True(t, scope.IsEmpty())
		assert.False(t, scope.All)
	})

	t.Run("malformed project id means no specific project", func(t *testing.T) {
		scope, err := ResolveScope(member, "not-a-uuid")
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{projectA, projectB}, scope.ProjectIDs)

		adminScope, err := ResolveScope(admin, "not-a-uuid")
		require.NoError(t, err)
		assert.True(t, adminScope.All)
	})
}
