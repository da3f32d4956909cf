package groupby

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/dot5enko/segment-exec/schema"
)

// DefaultArrayKeyThreshold separates the array-addressable key strategy
// from the map-addressable ones.
const DefaultArrayKeyThreshold = 10_000

const keySeparator = '\t'

var (
	ErrNoGroupColumns = errors.New("group columns list is empty")
	ErrUnknownColumn  = errors.New("column not present in value source")
	ErrBadCardinality = errors.New("column cardinality is not positive")
)

// ColumnSource describes the columns available to one segment evaluation.
type ColumnSource interface {
	Descriptor(column string) (schema.ColumnDescriptor, bool)
}

// ValueBlock supplies per-row dictionary ids of one evaluation block for
// the columns requested at generator construction. It must stay valid and
// immutable for the duration of one generate call.
type ValueBlock interface {
	NumRows() int
	SingleValues(column string) []uint32
	MultiValues(column string) [][]uint32
}

// Generator maps each row's grouping-column values onto compact integer
// group keys via mixed-radix encoding over the ordered grouping columns.
// The key representation is picked once, at construction, from the
// cardinality product:
//
//   - product <= threshold: keys are array-addressable, the radix value is
//     the group id itself
//   - product fits int64: the radix value is computed as uint64 and mapped
//     to a dense first-seen group id
//   - product overflows: the combination is keyed by its delimited string
//     form instead
//
// Map-based ids depend on row scan order, the same combination keeps its
// id within one generator instance but may differ across instances fed in
// a different order. One instance serves one single-threaded segment
// evaluation.
type Generator struct {
	columns []schema.ColumnDescriptor
	radixes []uint64

	globalUpperBound int
	multiValued      bool

	holder keyHolder

	tuple []uint32
}

func New(source ColumnSource, groupColumns []string, arrayKeyThreshold int) (*Generator, error) {

	if len(groupColumns) == 0 {
		return nil, ErrNoGroupColumns
	}

	if arrayKeyThreshold <= 0 {
		arrayKeyThreshold = DefaultArrayKeyThreshold
	}

	columns := make([]schema.ColumnDescriptor, len(groupColumns))
	multiValued := false

	for i, name := range groupColumns {

		desc, found := source.Descriptor(name)
		if !found {
			return nil, fmt.Errorf("group column `%v`: %w", name, ErrUnknownColumn)
		}

		if desc.Cardinality < 1 {
			return nil, fmt.Errorf("group column `%v` cardinality %d: %w", name, desc.Cardinality, ErrBadCardinality)
		}

		columns[i] = desc
		multiValued = multiValued || desc.MultiValued
	}

	// cardinality product, saturating on overflow
	product := uint64(1)
	saturated := false

	for _, it := range columns {
		card := uint64(it.Cardinality)
		if product > math.MaxInt64/card {
			saturated = true
			break
		}
		product *= card
	}

	g := &Generator{
		columns:     columns,
		multiValued: multiValued,
		tuple:       make([]uint32, len(columns)),
	}

	if !saturated {
		g.radixes = make([]uint64, len(columns))
		mult := uint64(1)
		for i, it := range columns {
			g.radixes[i] = mult
			mult *= uint64(it.Cardinality)
		}
	}

	switch {
	case !saturated && product <= uint64(arrayKeyThreshold):
		g.globalUpperBound = int(product)
		g.holder = newArrayKeyHolder(int(product), g.radixes, g.formatRawKey)
	case !saturated:
		g.globalUpperBound = int(product)
		g.holder = newUint64MapKeyHolder(g.radixes, g.formatRawKey)
	default:
		g.globalUpperBound = math.MaxInt64
		g.holder = newStringMapKeyHolder()
	}

	return g, nil
}

// GlobalGroupKeyUpperBound is the theoretical number of distinct
// combinations, known before any row is processed. Saturates at the
// maximum positive integer when the cardinality product overflows.
func (g *Generator) GlobalGroupKeyUpperBound() int {
	return g.globalUpperBound
}

// CurrentGroupKeyUpperBound never decreases as blocks are processed. For
// the array strategy every slot is addressable up-front, so it equals the
// global bound from the start.
func (g *Generator) CurrentGroupKeyUpperBound() int {
	return g.holder.currentUpperBound()
}

// MultiValued reports whether any grouping column is multi-valued, which
// dictates the per-row key buffer shape the caller must use.
func (g *Generator) MultiValued() bool {
	return g.multiValued
}

// GenerateBlockKeys fills out[row] with the group key of each block row.
// All grouping columns must be single-valued.
func (g *Generator) GenerateBlockKeys(block ValueBlock, out []int) {

	if g.multiValued {
		panic("single-value key buffer used with multi-valued grouping columns")
	}

	vectors := make([][]uint32, len(g.columns))
	for i, it := range g.columns {
		vectors[i] = block.SingleValues(it.Name)
	}

	for row := range block.NumRows() {
		for i := range vectors {
			g.tuple[i] = vectors[i][row]
		}
		out[row] = g.holder.keyForIds(g.tuple)
	}
}

// GenerateBlockKeysMultiValue fills out[row] with one key per value
// combination of that row, the Cartesian product of its columns' value
// sets. A row carrying zero values in any grouping column contributes no
// combinations and is left with an empty key list.
func (g *Generator) GenerateBlockKeysMultiValue(block ValueBlock, out [][]int) {

	numColumns := len(g.columns)

	sv := make([][]uint32, numColumns)
	mv := make([][][]uint32, numColumns)

	for i, it := range g.columns {
		if it.MultiValued {
			mv[i] = block.MultiValues(it.Name)
		} else {
			sv[i] = block.SingleValues(it.Name)
		}
	}

	rowValues := make([][]uint32, numColumns)
	svScratch := make([]uint32, numColumns)
	odometer := make([]int, numColumns)

	for row := range block.NumRows() {

		emptyRow := false

		for i, it := range g.columns {
			if it.MultiValued {
				rowValues[i] = mv[i][row]
				if len(rowValues[i]) == 0 {
					emptyRow = true
				}
			} else {
				svScratch[i] = sv[i][row]
				rowValues[i] = svScratch[i : i+1]
			}
		}

		keys := out[row][:0]

		if emptyRow {
			out[row] = keys
			continue
		}

		for i := range odometer {
			odometer[i] = 0
		}

		// walk the product with the last column varying fastest
		for {
			for i := range rowValues {
				g.tuple[i] = rowValues[i][odometer[i]]
			}
			keys = append(keys, g.holder.keyForIds(g.tuple))

			pos := numColumns - 1
			for pos >= 0 {
				odometer[pos]++
				if odometer[pos] < len(rowValues[pos]) {
					break
				}
				odometer[pos] = 0
				pos--
			}
			if pos < 0 {
				break
			}
		}

		out[row] = keys
	}
}

// UniqueGroupKeys snapshots the assignment state into a single-pass
// iterator over every combination observed so far.
func (g *Generator) UniqueGroupKeys() *GroupKeyIterator {
	return g.holder.uniqueKeys()
}

// formatRawKey decodes a mixed-radix key back into its per-column
// dictionary ids and joins them in grouping-column order.
func (g *Generator) formatRawKey(raw uint64) string {

	ids := make([]uint64, len(g.radixes))
	for i := len(g.radixes) - 1; i >= 0; i-- {
		ids[i] = raw / g.radixes[i]
		raw -= ids[i] * g.radixes[i]
	}

	buf := make([]byte, 0, len(ids)*4)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, keySeparator)
		}
		buf = strconv.AppendUint(buf, id, 10)
	}

	return string(buf)
}
