package domain

// Capability tags what the current identity may see and do. Navigation
// rendering and the participation checks consume the same function so role
// rules live in exactly one place.
type Capability string

const (
	CapBrowseEvents  Capability = "browse_events"
	CapJoinEvents    Capability = "join_events"
	CapHostEvents    Capability = "host_events"
	CapSubmitReviews Capability = "submit_reviews"
	CapFollowUsers   Capability = "follow_users"
	CapDashboard     Capability = "dashboard"
	CapModerate      Capability = "moderate"
)

// VisibleActions returns the capability set for the identity, in stable
// order. An unknown identity gets nothing: access decisions are deferred
// until resolution completes.
func VisibleActions(ident Identity) []Capability {
	switch ident.Status {
	case IdentityAnonymous:
		return []Capability{CapBrowseEvents}
	case IdentityAuthenticated:
		caps := []Capability{CapBrowseEvents, CapJoinEvents, CapSubmitReviews, CapFollowUsers, CapDashboard}
		switch ident.Role() {
		case RoleHost:
			caps = append(caps, CapHostEvents)
		case RoleAdmin:
			caps = append(caps, CapHostEvents, CapModerate)
		}
		return caps
	default:
		return nil
	}
}

// Can reports whether the identity holds the capability.
func Can(ident Identity, cap Capability) bool {
	for _, c := range VisibleActions(ident) {
		if c == cap {
			return true
		}
	}
	return false
}
