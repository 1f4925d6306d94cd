package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/coordgraph/internal/config"
	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/exprrule"
	"github.com/specialistvlad/coordgraph/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string { return []string{".yaml", ".yml"} }

// Load parses every YAML graph file under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML graph files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read graph file %s: %w", file, err)
		}
		m, err := Parse(data, file)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	logger.Debug("YAML loading complete.", "rules", len(model.Rules))
	return model, nil
}

// Parse decodes one YAML graph document. filename is used in messages only.
// Unknown keys are rejected.
func Parse(data []byte, filename string) (*config.Model, error) {
	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse graph YAML %s: %w", filename, err)
	}

	model := &config.Model{Rules: make([]*config.Rule, 0, len(root.Rules))}
	for _, n := range root.Rules {
		r, err := translate(n, filename)
		if err != nil {
			return nil, err
		}
		model.Rules = append(model.Rules, r)
	}
	return model, nil
}

func translate(n ruleNode, filename string) (*config.Rule, error) {
	source := fmt.Sprintf("%s:%d", filename, n.line)
	if len(n.Outputs) == 0 {
		return nil, fmt.Errorf("%s: rule has no 'outputs'", source)
	}
	r := &config.Rule{
		Kind:    config.KindCompute,
		Outputs: n.Outputs,
		Func:    n.Func,
		Args:    n.Args,
		Unit:    n.Unit,
		Source:  source,
	}
	if n.From != "" {
		if n.Func != "" || n.Expr != "" || len(n.Args) > 0 {
			return nil, fmt.Errorf("%s: 'from' cannot be combined with 'func', 'expr' or 'args'", source)
		}
		r.Kind = config.KindRename
		r.From = n.From
		return r, nil
	}
	if n.Expr != "" {
		expr, err := exprrule.Parse(n.Expr, source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		r.Expr = expr
	}
	return r, nil
}
