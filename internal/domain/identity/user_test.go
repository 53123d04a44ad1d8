package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Alice@Example.com", "s3cret-pass", "Alice Jones", RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))

	_, err = NewUser("not-an-email", "s3cret-pass", "Alice", RoleStaff)
	assert.Error(t, err)

	_, err = NewUser("alice@example.com", "short", "Alice", RoleStaff)
	assert.Error(t, err)

	_, err = NewUser("alice@example.com", "s3cret-pass", "Alice", Role("superuser"))
	assert.Error(t, err)
}

func TestUser_ScopedLocationIDs_Admin(t *testing.T) {
	admin, err := NewUser("admin@example.com", "s3cret-pass", "Admin", RoleAdmin)
	require.NoError(t, err)

	ids, all := admin.ScopedLocationIDs()
	assert.True(t, all)
	assert.Nil(t, ids)
	assert.True(t, admin.CanAccessLocation(uuid.New()))
}

func TestUser_ScopedLocationIDs_AllowedList(t *testing.T) {
	user, err := NewUser("staff@example.com", "s3cret-pass", "Staff", RoleStaff)
	require.NoError(t, err)

	allowed := []uuid.UUID{uuid.New(), uuid.New()}
	fallback := uuid.New()
	user.SetDefaultLocation(&fallback)
	user.GrantLocations(allowed)

	ids, all := user.ScopedLocationIDs()
	assert.False(t, all)
	// explicit grants win over the default location
	assert.ElementsMatch(t, allowed, ids)
	assert.True(t, user.CanAccessLocation(allowed[0]))
	assert.False(t, user.CanAccessLocation(fallback))
}

func TestUser_ScopedLocationIDs_DefaultFallback(t *testing.T) {
	user, err := NewUser("staff@example.com", "s3cret-pass", "Staff", RoleStaff)
	require.NoError(t, err)

	fallback := uuid.New()
	user.SetDefaultLocation(&fallback)

	ids, all := user.ScopedLocationIDs()
	assert.False(t, all)
	assert.Equal(t, []uuid.UUID{fallback}, ids)
}

func TestUser_ScopedLocationIDs_NoAccess(t *testing.T) {
	user, err := NewUser("staff@example.com", "s3cret-pass", "Staff", RoleStaff)
	require.NoError(t, err)

	ids, all := user.ScopedLocationIDs()
	assert.False(t, all)
	assert.Empty(t, ids)
	assert.False(t, user.CanAccessLocation(uuid.New()))
}

func TestUser_GrantLocations_Deduplicates(t *testing.T) {
	user, err := NewUser("staff@example.com", "s3cret-pass", "Staff", RoleStaff)
	require.NoError(t, err)

	id := uuid.New()
	user.GrantLocations([]uuid.UUID{id, id})

	assert.Len(t, user.AllowedLocations, 1)
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("staff@example.com", "s3cret-pass", "Staff", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("new-password"))
	assert.True(t, user.CheckPassword("new-password"))
	assert.False(t, user.CheckPassword("s3cret-pass"))

	assert.Error(t, user.ChangePassword("short"))
}
