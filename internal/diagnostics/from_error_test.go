package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vvakame/gqlir/internal/ir"
)

func TestFromError(t *testing.T) {
	_, parseErr := parser.ParseQuery(&ast.Source{Name: "broken.graphql", Input: "query {"})
	require.Error(t, parseErr)

	conflict := Errorf("AMBIGUOUS_ALIAS", ir.Location{Source: "a.graphql", Line: 1, Column: 1}, "conflict")

	t.Run("diagnostics", func(t *testing.T) {
		ds, ok := FromError(fmt.Errorf("validate: %w", Diagnostics{conflict}))
		require.True(t, ok)
		assert.Equal(t, Diagnostics{conflict}, ds)
	})

	t.Run("parse errors", func(t *testing.T) {
		var merr *multierror.Error
		merr = multierror.Append(merr, parseErr, parseErr)

		ds, ok := FromError(merr)
		require.True(t, ok)
		require.Len(t, ds, 2)
		assert.Equal(t, "broken.graphql", ds[0].Location.Source)
		assert.Equal(t, 1, ds[0].Location.Line)
	})

	t.Run("other errors", func(t *testing.T) {
		_, ok := FromError(errors.New("disk on fire"))
		assert.False(t, ok)
	})

	t.Run("nil", func(t *testing.T) {
		ds, ok := FromError(nil)
		assert.True(t, ok)
		assert.Empty(t, ds)
	})
}
