package segment

// ProjectedBlock materializes the column vectors of an arbitrary row
// subset, the shape a filtered row set takes before it feeds group-key
// generation. Row order follows the given doc-id order.
type ProjectedBlock struct {
	sv   map[string][]uint32
	mv   map[string][][]uint32
	rows int
}

// ProjectRows copies the values of the given segment-local doc ids into
// a standalone block covering every column.
func (s *Segment) ProjectRows(docIds []uint32) *ProjectedBlock {

	result := &ProjectedBlock{
		sv:   map[string][]uint32{},
		mv:   map[string][][]uint32{},
		rows: len(docIds),
	}

	for name, col := range s.columns {
		if col.Desc.MultiValued {
			vec := make([][]uint32, len(docIds))
			for i, id := range docIds {
				vec[i] = col.mv[id]
			}
			result.mv[name] = vec
		} else {
			vec := make([]uint32, len(docIds))
			for i, id := range docIds {
				vec[i] = col.sv[id]
			}
			result.sv[name] = vec
		}
	}

	return result
}

func (b *ProjectedBlock) NumRows() int {
	return b.rows
}

func (b *ProjectedBlock) SingleValues(column string) []uint32 {
	return b.sv[column]
}

func (b *ProjectedBlock) MultiValues(column string) [][]uint32 {
	return b.mv[column]
}
