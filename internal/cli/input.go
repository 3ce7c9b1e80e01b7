package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mapgraph/pkg/action"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
	mgio "github.com/matzehuels/mapgraph/pkg/io"
)

// stdio is the path meaning stdin or stdout.
const stdio = "-"

// =============================================================================
// Graph Files
// =============================================================================

// readGraph loads a graph file. "-" reads JSON from stdin.
func readGraph(cmd *cobra.Command, path string) (*graph.Graph, error) {
	if path == stdio {
		return mgio.ReadJSON(cmd.InOrStdin())
	}
	return mgio.Import(path)
}

// writeGraph writes g to out, or to stdout when out is empty or "-".
// Files are encoded by extension; stdout uses format.
func writeGraph(cmd *cobra.Command, g *graph.Graph, out, format string) error {
	if out != "" && out != stdio {
		if err := mgio.Export(g, out); err != nil {
			return err
		}
		printFile(out)
		return nil
	}
	if format == "yaml" {
		return mgio.WriteYAML(g, cmd.OutOrStdout())
	}
	return mgio.WriteJSON(g, cmd.OutOrStdout())
}

// =============================================================================
// Action Flags
// =============================================================================

// actionFlags selects the action(s) a command runs: either --action with
// --params, or a --script file listing steps.
type actionFlags struct {
	name   string
	params string
	script string
}

func (f *actionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "action", "a", "", "action name (see `mapgraph actions`)")
	cmd.Flags().StringVarP(&f.params, "params", "p", "", `action parameters as JSON, e.g. '{"point":"n1"}'`)
	cmd.Flags().StringVarP(&f.script, "script", "s", "", "JSON or YAML file with a list of steps")
	cmd.MarkFlagsMutuallyExclusive("action", "script")
	_ = cmd.RegisterFlagCompletionFunc("action", completeActions)
}

// steps resolves the flags into script steps.
func (f actionFlags) steps() ([]action.Step, error) {
	switch {
	case f.script != "":
		data, err := os.ReadFile(f.script)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read script")
		}
		return decodeSteps(data, isYAMLPath(f.script))
	case f.name != "":
		step := action.Step{Action: f.name}
		if f.params != "" {
			if err := decodeStrict([]byte(f.params), &step.Params); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "--params")
			}
		}
		return []action.Step{step}, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "one of --action or --script is required")
	}
}

// decodeSteps parses a script. YAML is normalized through JSON so both
// encodings share the step field names.
func decodeSteps(data []byte, isYAML bool) ([]action.Step, error) {
	if isYAML {
		var raw []map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode script")
		}
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode script")
		}
	}
	var steps []action.Step
	if err := decodeStrict(data, &steps); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode script")
	}
	if len(steps) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "script has no steps")
	}
	return steps, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// buildAction fills configured defaults and builds steps. A single step
// keeps its action name; several steps are recorded as "script".
func (c *CLI) buildAction(steps []action.Step, env action.Env) (string, action.Action, error) {
	for i := range steps {
		steps[i].Params = c.cfg.Params(steps[i].Action, steps[i].Params)
	}
	if len(steps) == 1 {
		a, err := action.Build(steps[0].Action, steps[0].Params, env)
		return steps[0].Action, a, err
	}
	a, err := action.BuildSequence(steps, env)
	return "script", a, err
}
