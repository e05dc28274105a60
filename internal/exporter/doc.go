// Package exporter serializes filtered record sets back to tabular formats
// for download: comma-separated text matching the loader's input format,
// plus an Excel workbook variant.
package exporter
