package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapgraph/internal/config"
	"github.com/matzehuels/mapgraph/pkg/action"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
	mgio "github.com/matzehuels/mapgraph/pkg/io"
	"github.com/matzehuels/mapgraph/pkg/preset"
)

const sampleGraph = `{
  "points": [
    {"id": "a", "loc": [0, 0]},
    {"id": "b", "loc": [1, 0]},
    {"id": "c", "loc": [1, 1]},
    {"id": "d", "loc": [2, 1], "tags": {"amenity": "bench"}}
  ],
  "lines": [
    {"id": "w1", "points": ["a", "b", "c"], "tags": {"highway": "footway"}},
    {"id": "w2", "points": ["c", "d"]}
  ]
}`

// isolate keeps tests away from real config files and stores.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("MAPGRAPH_STORE", "")
	t.Setenv("MAPGRAPH_STORE_DIR", filepath.Join(dir, "store"))
	t.Setenv("MAPGRAPH_PRESETS", "")
	return dir
}

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.json")
	if err := os.WriteFile(path, []byte(sampleGraph), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	captureStatus(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeGraph(t *testing.T, s string) *graph.Graph {
	t.Helper()
	g, err := mgio.ReadJSON(strings.NewReader(s))
	if err != nil {
		t.Fatalf("ReadJSON(output) error = %v\n%s", err, s)
	}
	return g
}

func TestApply(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)

	out, err := runCLI(t, "", "apply", in, "-a", "delete_node", "-p", `{"point":"b"}`)
	if err != nil {
		t.Fatalf("apply error = %v", err)
	}
	g := decodeGraph(t, out)
	if g.HasEntity("b") {
		t.Error("b still present")
	}
	w1, err := g.Line("w1")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(w1.Points); got != 2 {
		t.Errorf("len(w1.Points) = %d, want 2", got)
	}
}

func TestApply_Stdin(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, sampleGraph, "apply", "-", "-a", "change_tags", "-p", `{"entity":"w2","tags":{"highway":"service"}}`)
	if err != nil {
		t.Fatalf("apply error = %v", err)
	}
	w2, err := decodeGraph(t, out).Line("w2")
	if err != nil {
		t.Fatal(err)
	}
	if w2.Tags["highway"] != "service" {
		t.Errorf("w2 tags = %v", w2.Tags)
	}
}

func TestApply_ScriptToFile(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)
	script := filepath.Join(dir, "steps.yaml")
	src := `- action: add_midpoint
  edge: [a, b]
  point: m
- action: disconnect
  point: c
  new_id: c2
`
	if err := os.WriteFile(script, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.yaml")

	if _, err := runCLI(t, "", "apply", in, "-s", script, "-o", outPath); err != nil {
		t.Fatalf("apply error = %v", err)
	}
	g, err := mgio.Import(outPath)
	if err != nil {
		t.Fatalf("Import(%s) error = %v", outPath, err)
	}
	w1, _ := g.Line("w1")
	w2, _ := g.Line("w2")
	if w1 == nil || w2 == nil {
		t.Fatal("lines missing from output")
	}
	if got := joinIDs(w1.Points); got != "a m b c" {
		t.Errorf("w1 = %s, want a m b c", got)
	}
	if got := joinIDs(w2.Points); got != "c2 d" {
		t.Errorf("w2 = %s, want c2 d", got)
	}
}

func TestApply_Errors(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)

	tests := []struct {
		name     string
		args     []string
		wantCode errs.Code
	}{
		{"no action", []string{"apply", in}, errs.ErrCodeInvalidInput},
		{"bad params", []string{"apply", in, "-a", "delete_node", "-p", `{"pt":"b"}`}, errs.ErrCodeInvalidInput},
		{"unknown action", []string{"apply", in, "-a", "fly"}, errs.ErrCodeInvalidAction},
		{"missing entity", []string{"apply", in, "-a", "delete_node", "-p", `{"point":"zz"}`}, errs.ErrCodeNotFound},
		{"new id in use", []string{"apply", in, "-a", "disconnect", "-p", `{"point":"c","new_id":"w2"}`}, errs.ErrCodeInvalidInput},
		{"tiny max angle", []string{"apply", in, "-a", "circularize", "-p", `{"line":"w1","max_angle":0.001}`}, errs.ErrCodeInvalidInput},
		{"missing file", []string{"apply", filepath.Join(dir, "nope.json"), "-a", "delete_node"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantCode != "" && !errs.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)

	out, err := runCLI(t, "", "check", in, "-a", "circularize", "-p", `{"line":"w1"}`)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if got := strings.TrimSpace(out); got != string(action.ReasonNotClosed) {
		t.Errorf("check = %q, want %q", got, action.ReasonNotClosed)
	}

	out, err = runCLI(t, "", "check", in, "-a", "delete_node", "-p", `{"point":"a"}`)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if got := strings.TrimSpace(out); got != "enabled" {
		t.Errorf("check = %q, want enabled", got)
	}
}

func TestActions(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "", "actions")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Fields(out), action.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("actions = %v, want %v", got, want)
	}
}

func TestInfo(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)
	buf := captureStatus(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"info", in})
	root.SetOut(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"points", "4", "valid", "amenity/bench ×1", "highway/footway ×1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestDot(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)

	out, err := runCLI(t, "", "dot", in, "--detailed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "graph G {") || !strings.Contains(out, "amenity=bench") {
		t.Errorf("dot output = %q", out)
	}

	path := filepath.Join(dir, "view.dot")
	if _, err := runCLI(t, "", "dot", in, "-o", path); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(path); err != nil || !bytes.HasPrefix(data, []byte("graph G {")) {
		t.Errorf("dot file = %q, %v", data, err)
	}
}

func TestSession(t *testing.T) {
	dir := isolate(t)
	in := writeSample(t, dir)

	steps := [][]string{
		{"session", "save", "work", in},
		{"session", "apply", "work", "-a", "delete_node", "-p", `{"point":"d"}`},
		{"session", "apply", "work", "-a", "change_tags", "-p", `{"entity":"w1","tags":{}}`},
		{"session", "undo", "work"},
	}
	for _, args := range steps {
		if _, err := runCLI(t, "", args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, err := runCLI(t, "", "session", "export", "work")
	if err != nil {
		t.Fatal(err)
	}
	g := decodeGraph(t, out)
	w1, _ := g.Line("w1")
	if g.HasEntity("d") || w1 == nil || w1.Tags["highway"] != "footway" {
		t.Errorf("exported graph: has d = %v, w1 = %+v", g.HasEntity("d"), w1)
	}

	out, err = runCLI(t, "", "session", "log", "work")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "*") || !strings.Contains(lines[2], "change_tags") {
		t.Errorf("session log =\n%s", out)
	}

	if _, err := runCLI(t, "", "session", "redo", "work"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "", "session", "redo", "work"); !errs.Is(err, errs.ErrCodeInvalidAction) {
		t.Errorf("redo at top error = %v, want INVALID_ACTION", err)
	}

	if _, err := runCLI(t, "", "session", "clear", "work"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "", "session", "export", "work"); !errs.Is(err, errs.ErrCodeSessionNotFound) {
		t.Errorf("export after clear error = %v, want SESSION_NOT_FOUND", err)
	}
	if _, err := runCLI(t, "", "session", "save", "../escape", in); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("save with bad name error = %v, want INVALID_INPUT", err)
	}
}

func TestConfigLogLevel(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "mapgraph.toml")
	if err := os.WriteFile(path, []byte("log_level = \"debug\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", path, "actions"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug from config", c.Logger.GetLevel())
	}

	c = New(io.Discard, LogInfo)
	c.SetLogLevel(LogInfo)
	root = c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", path, "actions"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want explicit info", c.Logger.GetLevel())
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "mapgraph") {
		t.Error("bash completion does not mention mapgraph")
	}
}

func TestDecodeSteps(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		yaml    bool
		want    int
		wantErr bool
	}{
		{"json", `[{"action":"delete_node","point":"a"}]`, false, 1, false},
		{"yaml", "- action: delete_node\n  point: a\n- action: delete_line\n  line: w1\n", true, 2, false},
		{"yaml nested", "- action: change_member\n  relation: r1\n  member: {id: a, role: stop}\n", true, 1, false},
		{"empty", `[]`, false, 0, true},
		{"unknown field", `[{"action":"delete_node","pointt":"a"}]`, false, 0, true},
		{"yaml unknown field", "- action: x\n  colour: red\n", true, 0, true},
		{"not a list", `{"action":"x"}`, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := decodeSteps([]byte(tt.src), tt.yaml)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(steps) != tt.want {
				t.Errorf("len(steps) = %d, want %d", len(steps), tt.want)
			}
		})
	}
}

func TestPresetSummary(t *testing.T) {
	g := decodeGraph(t, sampleGraph)
	got := presetSummary(g, preset.Default())
	if got != "amenity/bench ×1, highway/footway ×1" {
		t.Errorf("presetSummary() = %q", got)
	}
	if got := presetSummary(graph.Empty(), preset.Default()); got != "none matched" {
		t.Errorf("presetSummary(empty) = %q", got)
	}
}
