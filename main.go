package main

import (
	"log"
	"math/rand"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/dot5enko/segment-exec/executor"
	"github.com/dot5enko/segment-exec/query"
	"github.com/dot5enko/segment-exec/schema"
	"github.com/dot5enko/segment-exec/segment"
)

func gen_fake_segment(name string, numRows int) *segment.Segment {

	builder := segment.NewBuilder(name, []schema.ColumnDescriptor{
		{Name: "region"},
		{Name: "status"},
		{Name: "tags", MultiValued: true},
	})

	for i := 0; i < numRows; i++ {

		numTags := 1 + rand.Intn(3)
		tags := make([]uint64, numTags)
		for k := range tags {
			tags[k] = uint64(rand.Intn(20))
		}

		builder.Add(segment.Row{
			"region": {uint64(rand.Intn(8))},
			"status": {uint64(rand.Intn(4))},
			"tags":   tags,
		})
	}

	seg, buildErr := builder.Build()
	if buildErr != nil {
		panic(buildErr)
	}

	return seg
}

func main() {

	segments := []*segment.Segment{
		gen_fake_segment("health_checks_0", 50_000),
		gen_fake_segment("health_checks_1", 50_000),
	}

	results, queryErr := executor.Run(segments, query.Query{
		Filter: []query.FilterCondition{
			{Field: "status", Operand: query.LT, Arguments: []uint64{2}},
		},
		GroupBy: []string{"region", "tags"},
	}, 2)

	if queryErr != nil {
		panic(queryErr)
	}

	spew.Dump(results)

	artifactPath, dumpErr := segments[0].WriteArtifact(os.TempDir())
	if dumpErr != nil {
		panic(dumpErr)
	}

	log.Printf("segment artifact @ %s", artifactPath)
}
