package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/irbuild"
	"github.com/vvakame/gqlir/internal/schema"
)

func readSources(filePaths []string) ([]*ast.Source, error) {
	sources := make([]*ast.Source, 0, len(filePaths))
	for _, filePath := range filePaths {
		b, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, &ast.Source{Name: filePath, Input: string(b)})
	}
	return sources, nil
}

// loadProgram builds the documents against the schema files. Errors in the
// documents come back as diagnostics.Diagnostics or parse errors.
func loadProgram(opts *RootOptions, documents []string) (*ir.Program, error) {
	if len(opts.Schemas) == 0 {
		return nil, errors.New("at least one --schema file is required")
	}

	schemaSources, err := readSources(opts.Schemas)
	if err != nil {
		return nil, err
	}
	s, err := schema.Load(schemaSources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	sources, err := readSources(documents)
	if err != nil {
		return nil, err
	}
	return irbuild.BuildSources(s, sources...)
}
