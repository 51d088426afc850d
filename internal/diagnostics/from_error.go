package diagnostics

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// FromError collects the diagnostics carried by err. Parse errors aggregated
// by go-multierror and gqlparser errors are converted. ok is false when err
// holds something else, such as an I/O failure.
func FromError(err error) (ds Diagnostics, ok bool) {
	if err == nil {
		return nil, true
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			sub, ok := FromError(e)
			if !ok {
				return nil, false
			}
			ds = append(ds, sub...)
		}
		return ds, true
	}

	if errors.As(err, &ds) {
		return ds, true
	}
	var list gqlerror.List
	if errors.As(err, &list) {
		for _, gErr := range list {
			ds = append(ds, FromGQLError(gErr))
		}
		return ds, true
	}
	var gErr *gqlerror.Error
	if errors.As(err, &gErr) {
		return Diagnostics{FromGQLError(gErr)}, true
	}

	return nil, false
}
