package jump

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/TimelordUK/jumplist/internal/config"
)

// Filter decides whether an entry is listed
type Filter interface {
	Keep(j Jump, ctx Context) bool
}

// FilterFunc adapts a function to Filter
type FilterFunc func(j Jump, ctx Context) bool

// Keep implements Filter
func (f FilterFunc) Keep(j Jump, ctx Context) bool {
	return f(j, ctx)
}

// All keeps every entry
var All FilterFunc = func(Jump, Context) bool { return true }

// SameBuffer keeps entries in the buffer the list was opened from
var SameBuffer FilterFunc = func(j Jump, ctx Context) bool {
	return j.Buf == ctx.Buf
}

// UnderCwd keeps entries whose path lies below the working directory
var UnderCwd FilterFunc = func(j Jump, ctx Context) bool {
	if ctx.Cwd == "" || !filepath.IsAbs(j.Path) {
		return true
	}
	rel, err := filepath.Rel(ctx.Cwd, j.Path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// And keeps entries every filter keeps
func And(filters ...Filter) Filter {
	return FilterFunc(func(j Jump, ctx Context) bool {
		for _, f := range filters {
			if f != nil && !f.Keep(j, ctx) {
				return false
			}
		}
		return true
	})
}

// Builtin returns the named builtin filter
func Builtin(name string) (Filter, error) {
	switch name {
	case "", config.FilterAll:
		return All, nil
	case config.FilterBuffer:
		return SameBuffer, nil
	case config.FilterCwd:
		return UnderCwd, nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

// FilterFromConfig combines the builtin filter and the optional expression
func FilterFromConfig(cfg *config.Jumplist, log logr.Logger) (Filter, error) {
	builtin, err := Builtin(cfg.Filter)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.FilterExpr) == "" {
		return builtin, nil
	}

	expr, err := NewExprFilter(cfg.FilterExpr, log)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("filter expression compiled", "filter", cfg.Filter, "expr", expr.String())
	return And(builtin, expr), nil
}
