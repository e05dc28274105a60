package domain

// ValueCount is a single value/frequency pair in a breakdown table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// PoolSizeStats summarizes the numeric pool_size column over the filtered
// record set. Mean and median are truncated to integers. Mode is nil when
// no value occurs (empty input); when several values share the highest
// frequency the smallest is reported, which callers must treat as
// implementation-defined rather than a contract.
type PoolSizeStats struct {
	Mean         int64        `json:"mean"`
	Median       int64        `json:"median"`
	Mode         *int64       `json:"mode,omitempty"`
	Distribution []ValueCount `json:"distribution"`
}

// LocationRoleCount is one (location, role) group with its row count,
// used for the top-roles-by-location chart series keyed by role.
type LocationRoleCount struct {
	Location string `json:"location"`
	Role     string `json:"role"`
	Count    int    `json:"count"`
}

// TopValues is a frequency table over a single column. NoData is set when
// the column exists but holds no non-missing value after filtering, so the
// renderer can show an explicit "no data available" state instead of an
// ambiguous empty table.
type TopValues struct {
	Values []ValueCount `json:"values"`
	NoData bool         `json:"no_data"`
}

// Summaries bundles the optional aggregate blocks over the filtered set.
// Each block is nil when its required column(s) are absent from the schema.
type Summaries struct {
	PoolSize   *PoolSizeStats      `json:"pool_size,omitempty"`
	Industries []ValueCount        `json:"industries,omitempty"`
	TopRoles   []LocationRoleCount `json:"top_roles,omitempty"`
	Cities     *TopValues          `json:"cities,omitempty"`
	States     *TopValues          `json:"states,omitempty"`
}

// ViewModel is the full result of one recomputation pass: the filtered,
// projected and sorted record set plus its aggregate summaries. It is what
// the presentation layer renders after every selection change.
type ViewModel struct {
	Columns    []string   `json:"columns"`
	Rows       [][]string `json:"rows"`
	TotalRows  int        `json:"total_rows"`
	SortColumn string     `json:"sort_column"`
	Descending bool       `json:"descending"`
	Summaries  Summaries  `json:"summaries"`
}
