package transforms

import (
	"context"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/testutils"
)

func TestSkipUnreachableNode(t *testing.T) {
	s := testutils.TestSchema(t)

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name: "constant conditions",
			query: `
				query Q {
					me {
						id @include(if: false)
						name @skip(if: false)
						... @include(if: true) { email }
						bestFriend @skip(if: true) { id }
					}
				}
			`,
			expected: `
				query Q {
					me { name email }
				}
			`,
		},
		{
			name: "nested constant conditions",
			query: `
				query Q {
					me @include(if: true) {
						id @include(if: true) @skip(if: false)
					}
				}
			`,
			expected: `
				query Q {
					me { id }
				}
			`,
		},
		{
			name: "emptied fields and fragments are removed",
			query: `
				query Q {
					me {
						id
						...Hidden
						bestFriend { name @include(if: false) }
					}
				}
				fragment Hidden on User {
					name @include(if: false)
				}
			`,
			expected: `
				query Q {
					me { id }
				}
			`,
		},
		{
			name: "variable conditions are kept",
			query: `
				query Q {
					me {
						id @include(if: $c)
						name @skip(if: $c) @include(if: true)
					}
				}
			`,
			expected: `
				query Q {
					me {
						id @include(if: $c)
						name @skip(if: $c)
					}
				}
			`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := testutils.BuildProgram(t, s, heredoc.Doc(tt.query))

			next, err := SkipUnreachableNode(context.Background(), program)
			require.NoError(t, err)
			assertProgram(t, s, tt.expected, next)
		})
	}
}

func TestSkipUnreachableNode_unchanged(t *testing.T) {
	s := testutils.TestSchema(t)
	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q {
			me { id @include(if: $c) ...A }
		}
		fragment A on User { bestFriend { ...B } }
		fragment B on User { bestFriend { ...A } }
	`))

	next, err := SkipUnreachableNode(context.Background(), program)
	require.NoError(t, err)
	assert.Same(t, program, next)
}

func TestSkipUnreachableNode_cycle(t *testing.T) {
	s := testutils.TestSchema(t)
	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q {
			me { ...A }
		}
		fragment A on User { id @include(if: false) bestFriend { ...B } }
		fragment B on User { bestFriend { ...A } name @skip(if: true) }
	`))

	next, err := SkipUnreachableNode(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, 2, next.FragmentCount())
	assert.NotNil(t, next.Fragment(intern.Intern("A")))
	assertProgram(t, s, `
		query Q {
			me { ...A }
		}
		fragment A on User { bestFriend { ...B } }
		fragment B on User { bestFriend { ...A } }
	`, next)
}
