package domain

// User is an entry from the user directory extract.
// MaskedExternalID is the masked identity string used for hierarchy matching;
// empty when the source column is null, in which case the user can never match
// a hierarchy entry.
type User struct {
	ID               string
	Title            string
	MaskedExternalID string
	Deleted          bool
}

// OrgHierarchyEntry is a row from the organizational hierarchy extract.
// The relationship to User is a best-effort string match on
// RawID + "@" + domain against the user's masked external id, not a foreign
// key; a user has zero or one match.
type OrgHierarchyEntry struct {
	RawID       string
	Level6Name  string
	Level7Name  string
	Level8Name  string
	Level9Name  string
	ManagerName string
	Theater     string
	Deleted     bool
}
