package pipeline

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"testing"

	testlogr "github.com/go-logr/logr/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/diagnostics"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/irbuild"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/internal/testutils"
	"github.com/vvakame/gqlir/internal/validations"
)

func TestPipeline_golden(t *testing.T) {
	const testFileDir = "./_testdata/pipeline/assets"
	const expectFileDir = "./_testdata/pipeline/expected"

	files, err := os.ReadDir(testFileDir)
	if err != nil {
		t.Fatal(err)
	}

	s := testutils.TestSchema(t)

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.HasSuffix(file.Name(), ".graphql") {
			continue
		}

		t.Run(file.Name(), func(t *testing.T) {
			ctx := context.Background()
			ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

			b, err := os.ReadFile(path.Join(testFileDir, file.Name()))
			if err != nil {
				t.Fatal(err)
			}

			if testutils.FindOptionBool(t, "skip", string(b)) {
				t.Skip("skip this fixture")
			}

			cfg := &Config{
				Passes:      testutils.FindOptionList(t, "passes", string(b)),
				Parallelism: testutils.FindOptionInt(t, "parallelism", string(b)),
			}
			require.NoError(t, cfg.Validate())

			program, err := irbuild.BuildSources(s, &ast.Source{Name: file.Name(), Input: string(b)})
			if err != nil {
				t.Fatal(err)
			}

			p, err := New(cfg)
			if err != nil {
				t.Fatal(err)
			}

			var actual string
			result, err := p.Run(ctx, program)
			switch expect := testutils.FindOptionString(t, "expect", string(b)); {
			case expect == "error" && err == nil:
				t.Fatal("pipeline succeeded unexpectedly")
			case expect == "error":
				actual = err.Error() + "\n"
			case err != nil:
				t.Fatal(err)
			default:
				actual = ir.PrintProgram(result)
			}

			testutils.CheckGoldenFile(t, []byte(actual), path.Join(expectFileDir, file.Name()+".golden"))
		})
	}
}

func TestPipeline_Run(t *testing.T) {
	ctx := log.WithLogger(context.Background(), testlogr.NewTestLogger(t))
	program := testutils.BuildProgram(t, testutils.TestSchema(t), `query Q { me { id } }`)

	t.Run("passes run in order", func(t *testing.T) {
		var called []string
		record := func(name string) Pass {
			return ValidationPass(name, func(ctx context.Context, program *ir.Program) error {
				called = append(called, name)
				return nil
			})
		}

		result, err := NewWithPasses(record("a"), record("b"), record("c")).Run(ctx, program)
		require.NoError(t, err)
		assert.Same(t, program, result)
		assert.Equal(t, []string{"a", "b", "c"}, called)
	})

	t.Run("first failure stops the pipeline", func(t *testing.T) {
		failure := errors.New("failure")
		var called []string
		p := NewWithPasses(
			ValidationPass("fail", func(ctx context.Context, program *ir.Program) error {
				called = append(called, "fail")
				return failure
			}),
			TransformPass("never", func(ctx context.Context, program *ir.Program) (*ir.Program, error) {
				called = append(called, "never")
				return program, nil
			}),
		)

		result, err := p.Run(ctx, program)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, failure)
		assert.Equal(t, []string{"fail"}, called)
	})

	t.Run("output feeds the next pass", func(t *testing.T) {
		replaced := ir.NewProgram(program.Schema)
		var seen *ir.Program
		p := NewWithPasses(
			TransformPass("replace", func(ctx context.Context, program *ir.Program) (*ir.Program, error) {
				return replaced, nil
			}),
			ValidationPass("check", func(ctx context.Context, program *ir.Program) error {
				seen = program
				return nil
			}),
		)

		result, err := p.Run(ctx, program)
		require.NoError(t, err)
		assert.Same(t, replaced, result)
		assert.Same(t, replaced, seen)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		p, err := New(DefaultConfig())
		require.NoError(t, err)
		_, err = p.Run(ctx, program)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPipeline_diagnostics(t *testing.T) {
	ctx := log.WithLogger(context.Background(), testlogr.NewTestLogger(t))
	program := testutils.BuildProgram(t, testutils.TestSchema(t), `query Q { me { avatar(size: 1) avatar(size: 2) } }`)

	p, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = p.Run(ctx, program)
	var ds diagnostics.Diagnostics
	require.ErrorAs(t, err, &ds)
	require.Len(t, ds, 1)
	assert.Equal(t, validations.CodeDifferentArguments, ds[0].Code)
}

func TestNew_unknownPass(t *testing.T) {
	_, err := New(&Config{Passes: []string{"skip_everything"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pass "skip_everything"`)
}
