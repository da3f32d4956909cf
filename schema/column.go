package schema

// number of rows a single evaluation block covers
const BlockRowsSize = 32 * 1024

// ColumnDescriptor describes one dictionary-encoded column of a segment.
// Immutable for the lifetime of a query evaluation.
type ColumnDescriptor struct {
	Name string

	// number of distinct dictionary ids, always >= 1 for a built column
	Cardinality int

	MultiValued bool
}
