package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dot5enko/segment-exec/blocks"
	"github.com/dot5enko/segment-exec/ops"
	"github.com/dot5enko/segment-exec/schema"
	"github.com/dot5enko/segment-exec/segment"
)

var (
	ErrColumnNotFound    = fmt.Errorf("column not found on segment")
	ErrMultiValueFilter  = fmt.Errorf("filtering on a multi-valued column is not supported")
	ErrBadArgumentsCount = fmt.Errorf("wrong filter arguments count for operand")
)

// PlanFilter compiles the query's filter conditions into a filter-block
// tree over one segment. Leaves are evaluated here, against the
// dictionary-encoded forward index; combination nodes only wire doc-id
// sets. An empty filter list selects every row.
func PlanFilter(seg *segment.Segment, queryData Query) (blocks.FilterBlock, error) {

	if len(queryData.Filter) == 0 {
		// complement of nothing: full scan
		return blocks.NewNot(blocks.NewLeaf(nil, nil), uint32(seg.NumRows())), nil
	}

	// check fields before filtering data
	for _, filter := range queryData.Filter {
		col, found := seg.Column(filter.Field)
		if !found {
			return nil, fmt.Errorf("column `%v`: %w", filter.Field, ErrColumnNotFound)
		}
		if col.Desc.MultiValued {
			return nil, fmt.Errorf("column `%v`: %w", filter.Field, ErrMultiValueFilter)
		}
	}

	conditions := slices.Clone(queryData.Filter)

	// sort by name
	// for consistency of results
	slices.SortStableFunc(conditions, func(a, b FilterCondition) int {
		return strings.Compare(a.Field, b.Field)
	})

	children := make([]blocks.FilterBlock, 0, len(conditions))

	for _, filter := range conditions {

		col, _ := seg.Column(filter.Field)

		child, evalErr := evalCondition(col, filter, seg.NumRows())
		if evalErr != nil {
			return nil, fmt.Errorf("error filter processing : %s", evalErr.Error())
		}

		children = append(children, child)
	}

	if len(children) == 1 {
		return children[0], nil
	}

	return blocks.NewAnd(children...), nil
}

func evalCondition(col *segment.Column, filter FilterCondition, numRows int) (blocks.FilterBlock, error) {

	dict := col.Dict
	card := uint32(dict.Cardinality())

	switch filter.Operand {

	case EQ:
		if len(filter.Arguments) != 1 {
			return nil, ErrBadArgumentsCount
		}

		// build-time value bounds reject the lookup outright
		if filter.Arguments[0] < col.Bounds.Min || filter.Arguments[0] > col.Bounds.Max {
			return blocks.NewLeaf(nil, leafMetadata(col, 0, 0)), nil
		}

		id, found := dict.IdOf(filter.Arguments[0])
		if !found {
			return blocks.NewLeaf(nil, leafMetadata(col, 0, 0)), nil
		}
		return evalIdRange(col, id, id+1, numRows), nil

	case GT:
		if len(filter.Arguments) != 1 {
			return nil, ErrBadArgumentsCount
		}
		return evalIdRange(col, dict.SearchGT(filter.Arguments[0]), card, numRows), nil

	case LT:
		if len(filter.Arguments) != 1 {
			return nil, ErrBadArgumentsCount
		}
		return evalIdRange(col, 0, dict.SearchGE(filter.Arguments[0]), numRows), nil

	case RANGE:
		if len(filter.Arguments) != 2 {
			return nil, ErrBadArgumentsCount
		}
		return evalIdRange(col, dict.SearchGE(filter.Arguments[0]), dict.SearchGE(filter.Arguments[1]), numRows), nil

	case IN:
		if len(filter.Arguments) == 0 {
			return nil, ErrBadArgumentsCount
		}

		members := make([]uint32, 0, len(filter.Arguments))
		for _, arg := range filter.Arguments {
			if id, found := dict.IdOf(arg); found {
				members = append(members, id)
			}
		}

		if len(members) > 4 {
			// wide member lists scan once through the set kernel instead
			// of merging many single-id streams
			out := make([]uint32, numRows)
			filled := ops.CompareIdsAreInSet(col.SingleIds(), members, out)

			bounds := schema.GetMaxMinBounds(members)
			return blocks.NewLeaf(out[:filled:filled], &blocks.Metadata{
				Bounds:      bounds,
				Cardinality: dict.Cardinality(),
			}), nil
		}

		// one leaf per member value, merged by the OR combinator
		leaves := make([]blocks.FilterBlock, 0, len(members)+1)
		for _, id := range members {
			leaves = append(leaves, evalIdRange(col, id, id+1, numRows))
		}
		if len(leaves) == 0 {
			leaves = append(leaves, blocks.NewLeaf(nil, leafMetadata(col, 0, 0)))
		}
		return blocks.NewOr(leaves...), nil

	default:
		return nil, fmt.Errorf("unsupported operand %v", filter.Operand.String())
	}
}

// evalIdRange runs the range kernel for dictionary ids in [from, to) and
// wraps the match list into a leaf block.
func evalIdRange(col *segment.Column, from, to uint32, numRows int) *blocks.LeafBlock {

	if to <= from {
		return blocks.NewLeaf(nil, leafMetadata(col, 0, 0))
	}

	out := make([]uint32, numRows)

	var filled int
	if to == from+1 {
		filled = ops.CompareIdsAreEqual(col.SingleIds(), from, out)
	} else {
		filled = ops.CompareIdsAreInRange(col.SingleIds(), from, to, out)
	}

	return blocks.NewLeaf(out[:filled:filled], leafMetadata(col, from, to-1))
}

func leafMetadata(col *segment.Column, minId, maxId uint32) *blocks.Metadata {
	return &blocks.Metadata{
		Bounds:      schema.Bounds[uint32]{Min: minId, Max: maxId},
		Cardinality: col.Dict.Cardinality(),
	}
}
