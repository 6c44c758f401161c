package scenario

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/descriptor"
	"github.com/webext-kit/webext/internal/questions"
)

func TestNames(t *testing.T) {
	want := []string{"full", "full-airbnb", "minimal"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("full")
	if err != nil {
		t.Fatalf("Lookup(full) error: %v", err)
	}
	st, err := s.Store()
	if err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if got := st.String("autoInstall"); got != "npm" {
		t.Errorf("autoInstall = %q, want npm", got)
	}

	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknown) {
		t.Errorf("Lookup(nope) error = %v, want ErrUnknown", err)
	}
}

// Every scenario must survive normalization against the default descriptor.
func TestScenariosNormalize(t *testing.T) {
	desc, err := descriptor.Default()
	if err != nil {
		t.Fatal(err)
	}
	list, err := All()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range list {
		t.Run(s.Name, func(t *testing.T) {
			st, err := s.Store()
			if err != nil {
				t.Fatal(err)
			}
			norm, err := questions.Normalize(desc.Questions, st)
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if v, ok := norm.Get("autoInstall"); !ok || (v.Kind == answers.Bool && v.Bool) {
				t.Errorf("autoInstall = %+v, %v", v, ok)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar(), " minimal ")
	if got := FromEnv(); got != "minimal" {
		t.Errorf("FromEnv() = %q, want minimal", got)
	}
}
