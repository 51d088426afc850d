package transforms

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/schema"
	"github.com/vvakame/gqlir/internal/testutils"
)

func assertProgram(t *testing.T, s schema.Schema, expected string, actual *ir.Program) {
	t.Helper()

	want := testutils.BuildProgram(t, s, heredoc.Doc(expected))
	assert.Equal(t, ir.PrintProgram(want), ir.PrintProgram(actual))
}
