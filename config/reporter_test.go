package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReport_Close(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	sheet := filepath.Join(dir, "main.css")
	if err := os.WriteFile(sheet, []byte(".a { width: 1px }"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("main.css", sheet); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// later edits do not affect stored copy
	if err := os.WriteFile(sheet, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("main.css", sheet); err != nil {
		t.Fatalf("second StoreCopy() error = %v", err)
	}
	r.StoreData("styles.yaml", []byte("rules: []\n"))
	r.Store("missing.log", filepath.Join(dir, "missing.log"))
	copies := append([]string(nil), r.copies...)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for _, c := range copies {
		if _, err := os.Stat(c); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s was not removed", c)
		}
	}

	arc, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("report is not a zip archive: %v", err)
	}
	defer arc.Close()

	files := map[string]string{}
	for _, f := range arc.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		files[f.Name] = string(data)
	}
	if len(files) != 4 {
		t.Errorf("archive has %d files, want 4: %v", len(files), files)
	}
	if files["main.css"] != ".a { width: 1px }" {
		t.Errorf("main.css = %q", files["main.css"])
	}
	if files["styles.yaml"] != "rules: []\n" {
		t.Errorf("styles.yaml = %q", files["styles.yaml"])
	}
	if _, ok := files["MANIFEST"]; !ok {
		t.Error("MANIFEST missing")
	}
}

func TestReport_StoreCopyDirectory(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.StoreCopy("dir", t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
	if err := r.StoreCopy("none", filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("nil report has a name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
