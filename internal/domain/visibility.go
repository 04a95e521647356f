package domain

// CanView decides read access to a route. isFriend reports whether a friend
// edge (viewer, owner) exists and must be resolved fresh per request;
// friendships change between calls.
func CanView(viewerID string, route Route, isFriend bool) bool {
	if route.OwnerID == viewerID {
		return true
	}
	switch route.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityFriends:
		return isFriend
	default:
		return false
	}
}
