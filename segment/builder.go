package segment

import (
	"fmt"
	"log/slog"

	"github.com/dot5enko/segment-exec/schema"
	"github.com/google/uuid"
)

// Row carries the raw values of one ingested row, keyed by column name.
// Single-valued columns hold exactly one entry, multi-valued ones at
// least one.
type Row map[string][]uint64

var (
	ErrNoRows = fmt.Errorf("no rows to build a segment from")
)

type Builder struct {
	name    string
	columns []schema.ColumnDescriptor
	rows    []Row
}

func NewBuilder(name string, columns []schema.ColumnDescriptor) *Builder {
	return &Builder{
		name:    name,
		columns: columns,
	}
}

func (b *Builder) Add(rows ...Row) {
	b.rows = append(b.rows, rows...)
}

// Build dictionary-encodes the accumulated rows into an immutable
// segment. Per-column cardinality on the resulting descriptors is the
// built dictionary size.
func (b *Builder) Build() (*Segment, error) {

	if len(b.rows) == 0 {
		return nil, ErrNoRows
	}

	numRows := len(b.rows)
	columns := make(map[string]*Column, len(b.columns))

	resultSchema := schema.Schema{
		Name:    b.name,
		Columns: make([]schema.ColumnDescriptor, len(b.columns)),
	}

	for colIdx, desc := range b.columns {

		allValues := []uint64{}
		colBounds := schema.Bounds[uint64]{}

		for rowIdx, row := range b.rows {

			values, found := row[desc.Name]
			if !found || len(values) == 0 {
				return nil, fmt.Errorf("row %d carries no values for column `%v`", rowIdx, desc.Name)
			}
			if !desc.MultiValued && len(values) != 1 {
				return nil, fmt.Errorf("row %d carries %d values for single-valued column `%v`", rowIdx, len(values), desc.Name)
			}

			if rowIdx == 0 {
				colBounds = schema.GetMaxMinBounds(values)
			} else {
				colBounds.Morph(schema.GetMaxMinBounds(values))
			}

			allValues = append(allValues, values...)
		}

		dict := BuildDictionary(allValues)
		desc.Cardinality = dict.Cardinality()

		col := &Column{
			Desc:   desc,
			Dict:   dict,
			Bounds: colBounds,
		}

		if desc.MultiValued {
			col.mv = make([][]uint32, numRows)
			for rowIdx, row := range b.rows {
				values := row[desc.Name]
				encoded := make([]uint32, len(values))
				for i, v := range values {
					encoded[i], _ = dict.IdOf(v)
				}
				col.mv[rowIdx] = encoded
			}
		} else {
			col.sv = make([]uint32, numRows)
			for rowIdx, row := range b.rows {
				col.sv[rowIdx], _ = dict.IdOf(row[desc.Name][0])
			}
		}

		columns[desc.Name] = col
		resultSchema.Columns[colIdx] = desc
	}

	uid := uuid.New()
	resultSchema.Uid = uid.String()

	slog.Info("segment built",
		"name", b.name,
		"uid", uid.String(),
		"rows", numRows,
		"columns", len(b.columns))

	return &Segment{
		Uid:     uid,
		Schema:  resultSchema,
		columns: columns,
		numRows: numRows,
	}, nil
}
