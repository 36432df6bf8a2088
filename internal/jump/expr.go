package jump

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// ExprFilter keeps entries for which a CEL expression is true.
//
// The expression sees two maps:
//
//	jump: current, pos, rel, buf, path, base, line, col, text
//	ctx:  win, buf, path, cwd
//
// e.g. `jump.path.startsWith(ctx.cwd) && !jump.text.contains("TODO")`
type ExprFilter struct {
	expr string
	prg  cel.Program
	log  logr.Logger
}

// NewExprFilter compiles expr
func NewExprFilter(expr string, log logr.Logger) (*ExprFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("jump", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("ctx", cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("filter expression: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter expression must be boolean, got %s", out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter program: %w", err)
	}

	return &ExprFilter{expr: expr, prg: prg, log: log}, nil
}

// Keep implements Filter. An expression that fails to evaluate keeps the entry.
func (f *ExprFilter) Keep(j Jump, ctx Context) bool {
	out, _, err := f.prg.Eval(map[string]any{
		"jump": jumpVars(j),
		"ctx": map[string]any{
			"win":  int64(ctx.Win),
			"buf":  int64(ctx.Buf),
			"path": ctx.Path,
			"cwd":  ctx.Cwd,
		},
	})
	if err != nil {
		f.log.V(1).Info("filter expression failed", "expr", f.expr, "path", j.Path, "line", j.Line, "error", err.Error())
		return true
	}

	b, ok := out.(types.Bool)
	if !ok {
		f.log.V(1).Info("filter expression is not boolean", "expr", f.expr, "type", out.Type())
		return true
	}
	return bool(b)
}

// String returns the source expression
func (f *ExprFilter) String() string {
	return f.expr
}

func jumpVars(j Jump) map[string]any {
	return map[string]any{
		"current": j.Current,
		"pos":     int64(j.Pos),
		"rel":     int64(j.Rel),
		"buf":     int64(j.Buf),
		"path":    j.Path,
		"base":    basename(j.Path),
		"line":    int64(j.Line),
		"col":     int64(j.Col),
		"text":    j.Text,
	}
}
