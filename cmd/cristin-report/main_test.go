package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/config"
	"github.com/henrybloomingdale/cristin-report/internal/docx"
)

func resetGlobalFlags(t *testing.T) {
	t.Helper()
	flagJSON = false
	flagHuman = false
	flagVerbose = false
	flagConfig = filepath.Join(t.TempDir(), "absent.yml")
	flagBaseURL = ""
	flagYear = 2024
	flagTemplate = ""
	flagOutDir = ""
	flagManual = ""
	flagFromFile = ""
	flagDump = ""
	flagRIS = ""
	flagOut = ""
	cfg = nil

	for _, key := range []string{"CRISTIN_BASE_URL", "CRISTIN_TEMPLATE", "CRISTIN_OUTPUT_DIR", "CRISTIN_PER_PAGE", "CRISTIN_MAX_PAGES", "CRISTIN_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("CRISTIN_RATE", "1000")
}

func loadTestdata(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", filename))
	if err != nil {
		t.Fatalf("failed to load testdata/%s: %v", filename, err)
	}
	return data
}

// writeTemplate writes a .docx whose body lists the given placeholders.
func writeTemplate(t *testing.T, dir string, keys []string) string {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, k := range keys {
		body.WriteString(`<w:p><w:r><w:t>{{ ` + k + ` }}</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, body.String()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, docx.TemplateName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	results := loadTestdata(t, "results_page1.json")
	person := loadTestdata(t, "person.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/persons/674004/results":
			if r.URL.Query().Get("page") == "1" {
				w.Write(results)
				return
			}
			w.Write([]byte(`[]`))
		case "/persons/674004":
			w.Write(person)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	resetGlobalFlags(t)
	srv := newRegistryServer(t)
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir, classify.RequiredPlaceholders())
	outDir := filepath.Join(dir, "reports")
	dump := filepath.Join(dir, "raw.json")
	ris := filepath.Join(dir, "refs.ris")

	out, err := execute(t, "generate", "674004",
		"--year", "2024",
		"--template", tmpl,
		"--out-dir", outDir,
		"--dump", dump,
		"--ris", ris,
		"--base-url", srv.URL,
		"--config", flagConfig,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(outDir, "Aarsrapport_2024_Kari Nordmann.docx")
	if strings.TrimSpace(out) != want {
		t.Errorf("expected output path %q, got %q", want, out)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if _, err := os.Stat(dump); err != nil {
		t.Errorf("dump not written: %v", err)
	}
	risBody, err := os.ReadFile(ris)
	if err != nil {
		t.Fatalf("RIS not written: %v", err)
	}
	if !strings.Contains(string(risBody), "TI  - Sleep and memory in adolescents") {
		t.Errorf("unexpected RIS output:\n%s", risBody)
	}
}

func TestGenerateCommand_MissingPlaceholders(t *testing.T) {
	resetGlobalFlags(t)
	srv := newRegistryServer(t)
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir, []string{"person_name"})
	outDir := filepath.Join(dir, "reports")

	_, err := execute(t, "generate", "674004",
		"--template", tmpl,
		"--out-dir", outDir,
		"--base-url", srv.URL,
		"--config", flagConfig,
	)
	if !errors.Is(err, docx.ErrTemplate) {
		t.Fatalf("expected template error, got %v", err)
	}
	if !strings.Contains(err.Error(), "report_year") {
		t.Errorf("expected missing keys in error, got %v", err)
	}
	if entries, _ := os.ReadDir(outDir); len(entries) != 0 {
		t.Errorf("expected no output files, got %d", len(entries))
	}
}

func TestPreviewCommand_FromFile(t *testing.T) {
	resetGlobalFlags(t)
	srv := newRegistryServer(t)
	raw := filepath.Join("..", "..", "testdata", "results_page1.json")

	out, err := execute(t, "preview", "674004",
		"--year", "2023",
		"--from-file", raw,
		"--base-url", srv.URL,
		"--config", flagConfig,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Kari Nordmann (674004), 2023", classify.MonographLevel1, "Circadian Rhythms"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected preview to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFetchCommand(t *testing.T) {
	resetGlobalFlags(t)
	srv := newRegistryServer(t)
	path := filepath.Join(t.TempDir(), "raw.json")

	out, err := execute(t, "fetch", "674004", "--out", path, "--base-url", srv.URL, "--config", flagConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Saved 3 records") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFetchCommand_InvalidID(t *testing.T) {
	resetGlobalFlags(t)
	_, err := execute(t, "fetch", "abc", "--config", flagConfig)
	if err == nil || !strings.Contains(err.Error(), "must be numeric") {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestPlaceholdersCommand(t *testing.T) {
	resetGlobalFlags(t)
	dir := t.TempDir()

	complete := writeTemplate(t, dir, classify.RequiredPlaceholders())
	if _, err := execute(t, "placeholders", complete, "--config", flagConfig); err != nil {
		t.Fatalf("expected complete template to pass, got %v", err)
	}

	partial := writeTemplate(t, t.TempDir(), []string{"report_year"})
	out, err := execute(t, "placeholders", partial, "--config", flagConfig)
	if !errors.Is(err, docx.ErrTemplate) {
		t.Fatalf("expected template error, got %v", err)
	}
	if !strings.Contains(out, "person_name") {
		t.Errorf("expected missing keys listed, got:\n%s", out)
	}
}

func TestValidateGlobalFlags(t *testing.T) {
	resetGlobalFlags(t)
	flagJSON = true
	flagHuman = true
	if err := validateGlobalFlags(); err == nil {
		t.Fatal("expected --json with --human to be rejected")
	}

	resetGlobalFlags(t)
	flagJSON = true
	if err := validateGlobalFlags(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateYear(t *testing.T) {
	tests := []struct {
		year    int
		wantErr bool
	}{
		{2024, false},
		{1999, false},
		{24, true},
		{0, true},
		{20240, true},
	}
	for _, tt := range tests {
		err := validateYear(tt.year)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateYear(%d) error = %v, wantErr %v", tt.year, err, tt.wantErr)
		}
	}
}

func TestTemplatePath(t *testing.T) {
	resetGlobalFlags(t)

	if got, err := templatePath("explicit.docx"); err != nil || got != "explicit.docx" {
		t.Fatalf("expected flag value, got %q, %v", got, err)
	}

	cfg = &config.Config{Template: "/srv/mal.docx"}
	if got, err := templatePath(""); err != nil || got != "/srv/mal.docx" {
		t.Fatalf("expected config value, got %q, %v", got, err)
	}

	cfg = &config.Config{}
	if _, err := templatePath(""); !errors.Is(err, docx.ErrTemplate) {
		t.Fatalf("expected template lookup error without templates dir, got %v", err)
	}
}

func TestOutputDir(t *testing.T) {
	resetGlobalFlags(t)
	if got := outputDir("custom"); got != "custom" {
		t.Errorf("expected flag value, got %q", got)
	}
	cfg = &config.Config{OutputDir: "from-config"}
	if got := outputDir(""); got != "from-config" {
		t.Errorf("expected config value, got %q", got)
	}
	cfg = nil
	if got := outputDir(""); got != config.DefaultOutputDir {
		t.Errorf("expected default, got %q", got)
	}
}
