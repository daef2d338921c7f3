package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/docpp/config"
	"github.com/c360studio/docpp/registry"
)

const testConstantsCatalog = `version: 1
kinds:
  ecodes:
    - name: ERROR_down
      doc: Instance is down.
    - name: ERROR_up
      doc: Instance is unexpectedly up.
  ssconf:
    - name: cluster_name
      doc: Name of the cluster.
`

const testFieldsCatalog = `version: 1
kinds:
  node:
    - name: name
      title: Name
      doc: Node name.
    - name: dtotal
      title: DTotal
      doc: Total disk space.
  instance:
    - name: disk.size/10
      doc: Size of the eleventh disk.
    - name: disk.size/2
      doc: Size of the third disk.
    - name: name
      doc: Instance name.
`

const testConfig = `log:
  level: error
catalogs:
  CONSTANTS:
    type: values
    path: catalogs/constants.yaml
  QUERY_FIELDS:
    type: fields
    path: catalogs/query-fields.yaml
`

// writeProject lays out a docpp project in a temp dir and returns the
// config path.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	catalogDir := filepath.Join(dir, "catalogs")
	if err := os.MkdirAll(catalogDir, 0755); err != nil {
		t.Fatalf("failed to create catalogs dir: %v", err)
	}

	write := func(path, content string) {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	write(filepath.Join(dir, "docpp.yaml"), testConfig)
	write(filepath.Join(catalogDir, "constants.yaml"), testConstantsCatalog)
	write(filepath.Join(catalogDir, "query-fields.yaml"), testFieldsCatalog)

	return filepath.Join(dir, "docpp.yaml")
}

// testApp builds an App from the fixture project without going through
// config discovery.
func testApp(t *testing.T) *App {
	t.Helper()
	configPath := writeProject(t)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return &App{
		cfg:      cfg,
		logger:   newLogger("error"),
		registry: reg,
	}
}

func TestBuildRegistryFromConfig(t *testing.T) {
	app := testApp(t)

	classes := app.registry.Classes()
	want := map[string]bool{"CONSTANTS": false, "QUERY_FIELDS": false}
	for _, class := range classes {
		if _, ok := want[class]; ok {
			want[class] = true
		}
	}
	for class, found := range want {
		if !found {
			t.Errorf("missing registered class: %s", class)
		}
	}

	lines, err := app.registry.Render("CONSTANTS", "ssconf")
	if err != nil {
		t.Fatalf("failed to render: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 rendered lines, got %d", len(lines))
	}
	if lines[0] != "``cluster_name``" {
		t.Errorf("unexpected first rendered line: %q", lines[0])
	}
}

func TestBuildRegistryMissingCatalogFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalogs["CONSTANTS"] = config.CatalogConfig{
		Type: config.CatalogValues,
		Path: filepath.Join(t.TempDir(), "absent.yaml"),
	}

	_, err := buildRegistry(cfg)
	if err == nil {
		t.Fatal("expected error for missing catalog file")
	}
	if !strings.Contains(err.Error(), "catalog CONSTANTS") {
		t.Errorf("expected error to name the class, got: %v", err)
	}
}

func TestLoadCatalogUnknownType(t *testing.T) {
	_, err := loadCatalog(config.CatalogConfig{Type: "table", Path: "x.yaml"})
	if err == nil {
		t.Fatal("expected error for unknown catalog type")
	}
}

func TestBuildOnce(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "admin.rst")
	doc := "Error codes\n===========\n\n@CONSTANTS_ECODES@\n\nNode fields\n-----------\n\n@QUERY_FIELDS_NODE@\n"
	if err := os.WriteFile(docPath, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	outPath := filepath.Join(dir, "admin.out")
	if err := app.buildOnce([]string{docPath}, outPath); err != nil {
		t.Fatalf("buildOnce() error = %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "Error codes\n===========\n\n" +
		"``ERROR_down``\n  Instance is down.\n``ERROR_up``\n  Instance is unexpectedly up.\n" +
		"\nNode fields\n-----------\n\n" +
		"``dtotal``\n  Total disk space.\n``name``\n  Node name.\n"
	if string(got) != want {
		t.Errorf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestBuildOnceNaturalFieldOrder(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "fields.rst")
	if err := os.WriteFile(docPath, []byte("@QUERY_FIELDS_INSTANCE@\n"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	outPath := filepath.Join(dir, "fields.out")
	if err := app.buildOnce([]string{docPath}, outPath); err != nil {
		t.Fatalf("buildOnce() error = %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	// disk.size/2 sorts before disk.size/10 despite "10" < "2" textually.
	want := "``disk.size/2``\n  Size of the third disk.\n" +
		"``disk.size/10``\n  Size of the eleventh disk.\n" +
		"``name``\n  Instance name.\n"
	if string(got) != want {
		t.Errorf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestBuildOnceAbortsOnUnknownDirective(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "bad.rst")
	doc := "kept line\n@UNKNOWN_THING@\nnever reached\n"
	if err := os.WriteFile(docPath, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	outPath := filepath.Join(dir, "bad.out")
	err := app.buildOnce([]string{docPath}, outPath)
	if err == nil {
		t.Fatal("expected error for unknown directive class")
	}
	if !strings.Contains(err.Error(), "bad.rst:2") {
		t.Errorf("expected error to carry source position, got: %v", err)
	}

	// Output holds the intact prefix written before the failure.
	got, readErr := os.ReadFile(outPath)
	if readErr != nil {
		t.Fatalf("failed to read output: %v", readErr)
	}
	if string(got) != "kept line\n" {
		t.Errorf("expected prefix output, got %q", got)
	}
}

func TestBuildOnceMultipleInputs(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	a := filepath.Join(dir, "a.rst")
	b := filepath.Join(dir, "b.rst")
	if err := os.WriteFile(a, []byte("first\n"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	if err := os.WriteFile(b, []byte("@CONSTANTS_SSCONF@\n"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	outPath := filepath.Join(dir, "combined.out")
	if err := app.buildOnce([]string{a, b}, outPath); err != nil {
		t.Fatalf("buildOnce() error = %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "first\n``cluster_name``\n  Name of the cluster.\n"
	if string(got) != want {
		t.Errorf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRebuildPicksUpCatalogEdits(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "doc.rst")
	if err := os.WriteFile(docPath, []byte("@CONSTANTS_SSCONF@\n"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	outPath := filepath.Join(dir, "doc.out")

	if err := app.rebuild([]string{docPath}, outPath); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if want := "``cluster_name``\n  Name of the cluster.\n"; string(got) != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}

	// Overwrite the catalog between runs, like a save during --watch.
	edited := `version: 1
kinds:
  ssconf:
    - name: master_node
      doc: Name of the master node.
`
	catalogPath := app.cfg.Catalogs["CONSTANTS"].Path
	if err := os.WriteFile(catalogPath, []byte(edited), 0644); err != nil {
		t.Fatalf("failed to edit catalog: %v", err)
	}

	if err := app.rebuild([]string{docPath}, outPath); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}
	got, err = os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if want := "``master_node``\n  Name of the master node.\n"; string(got) != want {
		t.Errorf("rebuild rendered stale catalog data\n got: %q\nwant: %q", got, want)
	}
}

func TestCheckReportsAllFailures(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "doc.rst")
	doc := "@CONSTANTS_ECODES@\n@UNKNOWN_THING@\ntext\n@CONSTANTS_MISSING@\n"
	if err := os.WriteFile(docPath, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	var report strings.Builder
	err := app.check([]string{docPath}, &report)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	if !strings.Contains(err.Error(), "2 of 3 directives failed") {
		t.Errorf("unexpected failure summary: %v", err)
	}

	out := report.String()
	if !strings.Contains(out, "doc.rst:2") {
		t.Errorf("expected report to include line 2, got:\n%s", out)
	}
	if !strings.Contains(out, "doc.rst:4") {
		t.Errorf("expected report to include line 4, got:\n%s", out)
	}
	if strings.Contains(out, "doc.rst:1") {
		t.Errorf("line 1 resolves and should not be reported, got:\n%s", out)
	}
}

func TestCheckCleanInputs(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	docPath := filepath.Join(dir, "doc.rst")
	if err := os.WriteFile(docPath, []byte("@CONSTANTS_ECODES@\nplain\n"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	var report strings.Builder
	if err := app.check([]string{docPath}, &report); err != nil {
		t.Fatalf("check() error = %v", err)
	}
	if report.Len() != 0 {
		t.Errorf("expected empty report, got:\n%s", report.String())
	}
}

func TestListOutput(t *testing.T) {
	app := testApp(t)

	var out strings.Builder
	if err := app.list(&out); err != nil {
		t.Fatalf("list() error = %v", err)
	}

	listing := out.String()
	for _, want := range []string{
		"CONSTANTS",
		"  @CONSTANTS_ECODES@",
		"  @CONSTANTS_SSCONF@",
		"QUERY_FIELDS",
		"  @QUERY_FIELDS_INSTANCE@",
		"  @QUERY_FIELDS_NODE@",
	} {
		if !strings.Contains(listing, want+"\n") {
			t.Errorf("expected listing to contain %q, got:\n%s", want, listing)
		}
	}
}

func TestListEmptyRegistry(t *testing.T) {
	app := &App{
		cfg:      config.DefaultConfig(),
		logger:   newLogger("error"),
		registry: mustRegistry(t, config.DefaultConfig()),
	}

	var out strings.Builder
	if err := app.list(&out); err != nil {
		t.Fatalf("list() error = %v", err)
	}
	if !strings.Contains(out.String(), "No directive classes configured") {
		t.Errorf("unexpected listing for empty registry: %s", out.String())
	}
}

func mustRegistry(t *testing.T, cfg *config.Config) *registry.Registry {
	t.Helper()
	reg, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return reg
}
