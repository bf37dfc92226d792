package primary

// Freshness describes how recently a group of data was updated.
type Freshness struct {
	UpdatedAt string
	Label     string
	Stale     bool
	Tier      string // fresh, warning or outdated
	Status    string // Current or Outdated
}
