package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const parseFixture = "ERMHDR\t19.12\n" +
	"%T\tPROJECT\n" +
	"%F\tproj_id\tproj_short_name\n" +
	"%R\tP1\tDEMO\n" +
	"%T\tPROJWBS\n" +
	"%F\twbs_id\twbs_name\tparent_wbs_id\tproj_node_flag\n" +
	"%R\tW1\tRoot\t\tY\n" +
	"%T\tTASK\n" +
	"%F\ttask_id\ttask_name\twbs_id\n" +
	"%R\tT1\tDig\tW1\n" +
	"%E\n"

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.xer")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCmd(t *testing.T) {
	path := writeFixture(t, parseFixture)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"parse", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var report struct {
		Encoding string `json:"encoding"`
		Project  *struct {
			ShortName string `json:"short_name"`
		} `json:"project"`
		Counts struct {
			WbsNodes   int `json:"wbs_nodes"`
			Activities int `json:"activities"`
		} `json:"counts"`
		Tables []struct {
			Name string `json:"name"`
			Rows int    `json:"rows"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if report.Encoding != "utf-8" {
		t.Errorf("encoding = %q, want utf-8", report.Encoding)
	}
	if report.Project == nil || report.Project.ShortName != "DEMO" {
		t.Errorf("project = %+v, want short_name DEMO", report.Project)
	}
	if report.Counts.WbsNodes != 1 || report.Counts.Activities != 1 {
		t.Errorf("counts = %+v, want 1 wbs and 1 activity", report.Counts)
	}
	if len(report.Tables) != 3 {
		t.Errorf("tables = %d, want 3", len(report.Tables))
	}
}

func TestParseCmd_WithHierarchy(t *testing.T) {
	path := writeFixture(t, parseFixture)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"parse", "--hierarchy", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestParseCmd_MissingFile(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"parse", "/nonexistent/file.xer"})

	if err := root.Execute(); err == nil {
		t.Fatal("Execute() expected error for missing file")
	}
}

func TestParseCmd_NotXER(t *testing.T) {
	path := writeFixture(t, "this is not a schedule file\n")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"parse", path})

	if err := root.Execute(); err == nil {
		t.Fatal("Execute() expected error for non-XER content")
	}
}
