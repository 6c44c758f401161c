package answers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore_SetNeverOverwrites(t *testing.T) {
	s := New()
	if err := s.Set("lint", BoolValue(true)); err != nil {
		t.Fatalf("first Set() error: %v", err)
	}
	err := s.Set("lint", BoolValue(false))
	if !errors.Is(err, ErrAlreadySet) {
		t.Fatalf("second Set() error = %v, want ErrAlreadySet", err)
	}
	if !s.Truthy("lint") {
		t.Error("lint was overwritten")
	}
}

func TestStore_Frozen(t *testing.T) {
	s := New()
	s.Freeze()
	if err := s.Set("name", StringValue("x")); !errors.Is(err, ErrFrozen) {
		t.Fatalf("Set() after Freeze error = %v, want ErrFrozen", err)
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"true bool", BoolValue(true), true},
		{"false bool", BoolValue(false), false},
		{"non-empty string", StringValue("x"), true},
		{"empty string", StringValue(""), false},
		{"choice", ChoiceValue("npm"), true},
		{"empty choice", ChoiceValue(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_AbsentIsFalse(t *testing.T) {
	s := New()
	if s.Truthy("missing") {
		t.Error("absent key should be falsy")
	}
	if s.String("missing") != "" {
		t.Error("absent key should render empty")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	content := "name: my-ext\nlint: true\nautoInstall: false\nlintConfig: standard\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	want := map[string]Value{
		"name":        StringValue("my-ext"),
		"lint":        BoolValue(true),
		"autoInstall": BoolValue(false),
		"lintConfig":  StringValue("standard"),
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("LoadFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateData(t *testing.T) {
	s := New()
	_ = s.Set("router", BoolValue(true))
	_ = s.Set("name", StringValue("ext"))

	got := s.TemplateData()
	if got["router"] != true {
		t.Errorf("router = %v, want true", got["router"])
	}
	if got["name"] != "ext" {
		t.Errorf("name = %v, want ext", got["name"])
	}
}
