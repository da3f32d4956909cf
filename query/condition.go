package query

// FilterCondition is one raw-value predicate over a single-valued column.
// Argument count depends on the operand: EQ/GT/LT take one, RANGE takes
// two (inclusive from, exclusive to), IN takes one or more.
type FilterCondition struct {
	Field     string
	Operand   CondOperand
	Arguments []uint64
}

type Query struct {
	Filter  []FilterCondition
	GroupBy []string

	// zero picks the group-key generator default
	ArrayKeyThreshold int
}
