// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/coordgraph/internal/config"
	"github.com/specialistvlad/coordgraph/internal/ctxlog"
)

// translateRename converts the HCL-specific rename schema into the agnostic model.
func (l *Loader) translateRename(file string, b *renameBlock) *config.Rule {
	return &config.Rule{
		Kind:    config.KindRename,
		Outputs: outputsOf(b.Name, b.Outputs),
		From:    b.From,
		Source:  fmt.Sprintf("%s: rename %q", file, b.Name),
	}
}

// translateCompute converts the HCL-specific compute schema into the agnostic model.
func (l *Loader) translateCompute(ctx context.Context, file string, b *computeBlock) *config.Rule {
	logger := ctxlog.FromContext(ctx).With("compute", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL compute block to internal config model.")

	r := &config.Rule{
		Kind:    config.KindCompute,
		Outputs: outputsOf(b.Name, b.Outputs),
		Func:    b.Func,
		Args:    b.Args,
		Unit:    b.Unit,
		Source:  fmt.Sprintf("%s: compute %q", file, b.Name),
	}
	if isExprDefined(ctx, b.Expr, "expr") {
		r.Expr = b.Expr
	}
	return r
}

func outputsOf(label string, outputs []string) []string {
	if len(outputs) > 0 {
		return outputs
	}
	return []string{label}
}
