package auth

type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// NormalizeRole maps arbitrary input to a known role. Only the exact string
// "organizer" elevates; everything else becomes an attendee, so registration
// never grants elevated access by accident.
func NormalizeRole(role string) Role {
	if role == string(RoleOrganizer) {
		return RoleOrganizer
	}
	return RoleAttendee
}

// IsOrganizer reports whether the identity's role claim grants event
// management access. The check is purely claim-based.
func IsOrganizer(identity *Identity) bool {
	return identity != nil && NormalizeRole(identity.Role) == RoleOrganizer
}

// CanManageEvent reports whether the identity may update or delete the event
// owned by ownerID. Only the owning organizer qualifies.
func CanManageEvent(identity *Identity, ownerID int64) bool {
	return IsOrganizer(identity) && identity.UserID == ownerID
}
