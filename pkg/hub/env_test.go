package hub

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_Missing(t *testing.T) {
	e, err := LoadEnv(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil {
		t.Fatalf("LoadEnv on missing file: %v", err)
	}
	if e.Get(KeyUser) != "" {
		t.Errorf("Get on empty env = %q", e.Get(KeyUser))
	}
}

func TestEnv_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesurgeon.env")
	e, err := LoadEnv(path)
	if err != nil {
		t.Fatal(err)
	}
	e.Set(KeyUser, "surgeon")
	e.Set(KeyDataset, "surgeon/needle-pass")
	if err := e.Save(); err != nil {
		t.Fatal(err)
	}

	e2, err := LoadEnv(path)
	if err != nil {
		t.Fatal(err)
	}
	if e2.Get(KeyUser) != "surgeon" {
		t.Errorf("HF_USER = %q, want surgeon", e2.Get(KeyUser))
	}
	if e2.Get(KeyDataset) != "surgeon/needle-pass" {
		t.Errorf("DATASET_REPO = %q", e2.Get(KeyDataset))
	}
}

func TestEnv_MutateInPlacePreservesForeignLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesurgeon.env")
	original := "# rig credentials\nHF_USER=old\nCUSTOM_FLAG=1\n"
	if err := os.WriteFile(path, []byte(original), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := LoadEnv(path)
	if err != nil {
		t.Fatal(err)
	}
	e.Set(KeyUser, "new")
	if err := e.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "# rig credentials\nHF_USER=new\nCUSTOM_FLAG=1\n"
	if string(data) != want {
		t.Errorf("file after Set:\n%s\nwant:\n%s", data, want)
	}
}

func TestEnv_QuotedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesurgeon.env")
	if err := os.WriteFile(path, []byte("TASK_NAME=\"Pass the needle\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := LoadEnv(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Get(KeyTask); got != "Pass the needle" {
		t.Errorf("TASK_NAME = %q, want unquoted value", got)
	}
}

func TestFirstField(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"surgeon\n", "surgeon"},
		{"\nsurgeon\norgs: none\n", "surgeon"},
		{"surgeon (api)\n", "surgeon"},
		{"", ""},
		{"\n  \n", ""},
	}
	for _, tt := range tests {
		if got := firstField(tt.out); got != tt.want {
			t.Errorf("firstField(%q) = %q, want %q", tt.out, got, tt.want)
		}
	}
}
