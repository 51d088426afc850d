package diagnostics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/gqlir/internal/ir"
)

func loc(line, column, start int) ir.Location {
	return ir.Location{Source: "query.graphql", Line: line, Column: column, Start: start, End: start + 1}
}

func TestCollector(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var c Collector
		assert.NoError(t, c.Err())
	})

	t.Run("sorted and deduplicated", func(t *testing.T) {
		var c Collector
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Add(Errorf("A", loc(3, 1, 30), "late").Annotate("other", loc(4, 1, 40)))
				c.Add(Errorf("A", loc(1, 1, 10), "early"))
			}()
		}
		wg.Wait()
		assert.Equal(t, 20, c.Len())

		err := c.Err()
		require.Error(t, err)
		ds, ok := err.(Diagnostics)
		require.True(t, ok)
		require.Len(t, ds, 2)
		assert.Equal(t, "early", ds[0].Message)
		assert.Equal(t, "late", ds[1].Message)
	})
}

func TestDiagnostic_Error(t *testing.T) {
	d := Errorf("AMBIGUOUS", loc(2, 3, 10), "field %q conflicts", "x").Annotate("other selection", loc(5, 7, 50))
	assert.Equal(t, "query.graphql:2:3: field \"x\" conflicts\n\tquery.graphql:5:7: other selection", d.Error())
}

func TestDiagnostic_ToGQLError(t *testing.T) {
	d := Errorf("AMBIGUOUS", loc(2, 3, 10), "conflict").Annotate("other", loc(5, 7, 50))
	gErr := d.ToGQLError()
	assert.Equal(t, "conflict", gErr.Message)
	require.Len(t, gErr.Locations, 2)
	assert.Equal(t, 5, gErr.Locations[1].Line)
	assert.Equal(t, "AMBIGUOUS", gErr.Extensions["code"])
	assert.Equal(t, "query.graphql", gErr.Extensions["file"])

	back := FromGQLError(gErr)
	assert.Equal(t, "conflict", back.Message)
	assert.Equal(t, "AMBIGUOUS", back.Code)
	assert.Equal(t, 2, back.Location.Line)
	assert.Equal(t, "query.graphql", back.Location.Source)
}

func TestInvariantViolation(t *testing.T) {
	assert.PanicsWithValue(t, "invariant violation: bad 1", func() {
		InvariantViolation("bad %d", 1)
	})
}
