// Package dataset implements the segment query engine: loading tabular ICP
// segment data, deriving filter vocabularies, applying categorical filters,
// projecting presentation columns, sorting and computing summary aggregates.
//
// The package is deliberately schema-less. A Dataset is an ordered set of
// rows over named string columns; every feature (a filter dimension, a
// summary block, a derived column) declares the columns it needs and
// degrades to a no-op when they are absent. The raw dataset produced by a
// load is immutable; ComputeView derives a fresh working copy per pass.
package dataset
