package dataset

// Normalize reconciles known alternate column names into their canonical
// form. It must run once per load, before any vocabulary derivation. The
// only rule today: "Aggregated Location" becomes "location_clean" unless the
// canonical column already exists. Running it again is a no-op.
func Normalize(ds *Dataset) {
	ds.RenameColumn(ColAggregatedLocation, ColLocation)
}
