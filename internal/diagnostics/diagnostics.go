// Package diagnostics holds the user facing errors produced while building
// and checking IR.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/gqlir/internal/ir"
)

// Annotation points at a secondary location of a diagnostic.
type Annotation struct {
	Message  string
	Location ir.Location
}

type Diagnostic struct {
	Message  string
	Code     string
	Location ir.Location
	Related  []Annotation
}

func Errorf(code string, loc ir.Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Code:     code,
		Location: loc,
	}
}

// Annotate adds a related location and returns d.
func (d *Diagnostic) Annotate(message string, loc ir.Location) *Diagnostic {
	d.Related = append(d.Related, Annotation{Message: message, Location: loc})
	return d
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Location.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	for _, related := range d.Related {
		b.WriteString("\n\t")
		b.WriteString(related.Location.String())
		if related.Message != "" {
			b.WriteString(": ")
			b.WriteString(related.Message)
		}
	}
	return b.String()
}

func (d *Diagnostic) ToGQLError() *gqlerror.Error {
	err := &gqlerror.Error{
		Message: d.Message,
	}
	for _, loc := range append([]ir.Location{d.Location}, d.relatedLocations()...) {
		if loc.IsGenerated() {
			continue
		}
		err.Locations = append(err.Locations, gqlerror.Location{Line: loc.Line, Column: loc.Column})
	}
	if d.Code != "" {
		err.Extensions = map[string]interface{}{
			"code": d.Code,
		}
	}
	err.SetFile(d.Location.Source)
	return err
}

func (d *Diagnostic) relatedLocations() []ir.Location {
	locs := make([]ir.Location, 0, len(d.Related))
	for _, related := range d.Related {
		locs = append(locs, related.Location)
	}
	return locs
}

func (d *Diagnostic) key() string {
	var b strings.Builder
	b.WriteString(d.Code)
	b.WriteString("|")
	b.WriteString(d.Message)
	b.WriteString("|")
	b.WriteString(d.Location.String())
	for _, loc := range d.relatedLocations() {
		b.WriteString("|")
		b.WriteString(loc.String())
	}
	return b.String()
}

// FromGQLError converts a gqlparser error. Only the first location is kept.
func FromGQLError(err *gqlerror.Error) *Diagnostic {
	d := &Diagnostic{
		Message: err.Message,
	}
	if len(err.Locations) != 0 {
		d.Location = ir.Location{
			Line:   err.Locations[0].Line,
			Column: err.Locations[0].Column,
		}
		d.Location.Source, _ = err.Extensions["file"].(string)
	}
	if code, ok := err.Extensions["code"].(string); ok {
		d.Code = code
	}
	return d
}

// Diagnostics is a batch of diagnostics reported as one error.
type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	msgs := make([]string, 0, len(ds))
	for _, d := range ds {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "\n")
}

// Sort orders ds by location, then by message.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		if c := ds[i].Location.Compare(ds[j].Location); c != 0 {
			return c < 0
		}
		return ds[i].Message < ds[j].Message
	})
}

// Dedupe drops diagnostics identical to an earlier one.
func (ds Diagnostics) Dedupe() Diagnostics {
	seen := make(map[string]struct{}, len(ds))
	result := make(Diagnostics, 0, len(ds))
	for _, d := range ds {
		key := d.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, d)
	}
	return result
}

func (ds Diagnostics) ToGQLErrors() gqlerror.List {
	list := make(gqlerror.List, 0, len(ds))
	for _, d := range ds {
		list = append(list, d.ToGQLError())
	}
	return list
}

// Collector gathers diagnostics from concurrent workers.
type Collector struct {
	mu          sync.Mutex
	diagnostics Diagnostics
}

func (c *Collector) Add(ds ...*Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, ds...)
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics)
}

// Err returns nil when nothing was collected, otherwise the deduplicated
// diagnostics sorted by location.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.diagnostics) == 0 {
		return nil
	}
	result := c.diagnostics.Dedupe()
	result.Sort()
	return result
}

// InvariantViolation aborts on a state the IR guarantees cannot happen.
func InvariantViolation(format string, args ...interface{}) {
	panic(fmt.Sprintf("invariant violation: "+format, args...))
}
