package report

import (
	directorydomain "signoff-dashboard/backend/internal/directory/domain"
)

// NotAssigned is the literal substituted for every attribution field when a
// user has no hierarchy match. Consumers rely on the string, never on
// null/empty.
const NotAssigned = "Not Assigned"

// Attribution is the organizational ownership attached to a report row:
// hierarchy level 6-9 names, manager, and theater.
type Attribution struct {
	Level6Name  string `json:"level6_name"`
	Level7Name  string `json:"level7_name"`
	Level8Name  string `json:"level8_name"`
	Level9Name  string `json:"level9_name"`
	ManagerName string `json:"manager_name"`
	Theater     string `json:"theater"`
}

// sentinelAttribution is the pre-built record substituted atomically on any
// lookup miss, so no field can ever be set while another is empty.
var sentinelAttribution = Attribution{
	Level6Name:  NotAssigned,
	Level7Name:  NotAssigned,
	Level8Name:  NotAssigned,
	Level9Name:  NotAssigned,
	ManagerName: NotAssigned,
	Theater:     NotAssigned,
}

// attributionResolver maps a user id to its org attribution. The hierarchy is
// keyed by the convention rawID + "@" + domain matched against the user's
// masked external id; this is a best-effort string match, not a foreign key.
type attributionResolver struct {
	users map[string]*directorydomain.User
	byKey map[string]*directorydomain.OrgHierarchyEntry
}

// newAttributionResolver indexes the snapshot's non-deleted hierarchy entries
// under their external keys.
func newAttributionResolver(s *Snapshot, domain string) *attributionResolver {
	byKey := make(map[string]*directorydomain.OrgHierarchyEntry, len(s.Hierarchy))
	for _, h := range s.Hierarchy {
		if h.Deleted {
			continue
		}
		byKey[h.RawID+"@"+domain] = h
	}
	return &attributionResolver{users: s.Users, byKey: byKey}
}

// resolve returns the attribution for userID. Any miss along the way (unknown
// or deleted user, user without a masked id, no hierarchy entry for the key)
// yields the sentinel record.
func (r *attributionResolver) resolve(userID string) Attribution {
	u, ok := r.users[userID]
	if !ok || u.Deleted || u.MaskedExternalID == "" {
		return sentinelAttribution
	}
	h, ok := r.byKey[u.MaskedExternalID]
	if !ok {
		return sentinelAttribution
	}
	return Attribution{
		Level6Name:  h.Level6Name,
		Level7Name:  h.Level7Name,
		Level8Name:  h.Level8Name,
		Level9Name:  h.Level9Name,
		ManagerName: h.ManagerName,
		Theater:     h.Theater,
	}
}
