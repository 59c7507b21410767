package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	require.Equal(t, RoleOrganizer, NormalizeRole("organizer"))
	require.Equal(t, RoleAttendee, NormalizeRole("Organizer"))
	require.Equal(t, RoleAttendee, NormalizeRole("attendee"))
	require.Equal(t, RoleAttendee, NormalizeRole("admin"))
	require.Equal(t, RoleAttendee, NormalizeRole(""))
}

func TestIsOrganizer(t *testing.T) {
	require.True(t, IsOrganizer(&Identity{UserID: 1, Role: "organizer"}))
	require.False(t, IsOrganizer(&Identity{UserID: 1, Role: "attendee"}))
	require.False(t, IsOrganizer(nil))
}

func TestCanManageEvent(t *testing.T) {
	owner := &Identity{UserID: 5, Role: "organizer"}
	other := &Identity{UserID: 6, Role: "organizer"}
	attendee := &Identity{UserID: 5, Role: "attendee"}

	require.True(t, CanManageEvent(owner, 5))
	require.False(t, CanManageEvent(other, 5))
	require.False(t, CanManageEvent(attendee, 5))
	require.False(t, CanManageEvent(nil, 5))
}
