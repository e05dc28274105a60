package domain

// Selection holds the chosen filter values per dimension. An empty slice (or
// nil) for a dimension imposes no constraint on that dimension.
type Selection struct {
	Roles      []string `json:"roles,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	States     []string `json:"states,omitempty"`
	Cities     []string `json:"cities,omitempty"`
}

// IsEmpty reports whether no dimension carries a selection.
func (s Selection) IsEmpty() bool {
	return len(s.Roles) == 0 &&
		len(s.Industries) == 0 &&
		len(s.Locations) == 0 &&
		len(s.States) == 0 &&
		len(s.Cities) == 0
}

// SortSpec describes the user-chosen ordering of the filtered record set.
// An empty Column means "use the default sort column" (pool_size when
// present, otherwise the first column).
type SortSpec struct {
	Column     string `json:"column,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// Vocabularies holds the selectable values per filter dimension, each sorted
// ascending. A dimension whose source column is absent has an empty slice.
type Vocabularies struct {
	Roles      []string `json:"roles"`
	Industries []string `json:"industries"`
	Locations  []string `json:"locations"`
	States     []string `json:"states"`
	Cities     []string `json:"cities"`
}
