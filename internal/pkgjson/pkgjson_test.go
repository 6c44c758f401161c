package pkgjson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const unsorted = `{
  "name": "my-ext",
  "version": "1.0.0",
  "scripts": {"serve": "vue-cli-service build --watch", "lint": "eslint"},
  "dependencies": {"vue": "^2.6.10", "axios": "^0.19.0", "vuex": "^3.0.1"},
  "devDependencies": {"webpack": "^4.0.0", "eslint": "^6.0.0", "@vue/cli-service": "^4.0.0"},
  "browserslist": ["> 1%"]
}`

func TestSortDependencies(t *testing.T) {
	out, err := SortDependencies([]byte(unsorted))
	if err != nil {
		t.Fatalf("SortDependencies() error: %v", err)
	}
	s := string(out)

	assertOrder(t, s, `"name"`, `"version"`, `"scripts"`, `"dependencies"`, `"devDependencies"`, `"browserslist"`)
	assertOrder(t, s, `"axios"`, `"vue"`, `"vuex"`)
	assertOrder(t, s, `"@vue/cli-service"`, `"eslint"`, `"webpack"`)
	// Non-dependency objects keep their own order.
	assertOrder(t, s, `"serve"`, `"lint"`)

	if !strings.HasSuffix(s, "}\n") {
		t.Error("output should end with a newline")
	}
	if !strings.Contains(s, "\n  \"name\": \"my-ext\"") {
		t.Errorf("output not indented with two spaces:\n%s", s)
	}
}

func TestSortDependencies_Idempotent(t *testing.T) {
	once, err := SortDependencies([]byte(unsorted))
	if err != nil {
		t.Fatal(err)
	}
	twice, err := SortDependencies(once)
	if err != nil {
		t.Fatal(err)
	}
	if string(once) != string(twice) {
		t.Errorf("second pass changed output:\n%s\n---\n%s", once, twice)
	}
}

func TestSortDependencies_Invalid(t *testing.T) {
	for _, in := range []string{`[]`, `{"dependencies": [1, 2]}`, `{"name": `} {
		if _, err := SortDependencies([]byte(in)); err == nil {
			t.Errorf("SortDependencies(%q) expected error", in)
		}
	}
}

func TestSortFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	changed, err := SortFile(path)
	if err != nil || changed {
		t.Fatalf("SortFile(missing) = %v, %v; want false, nil", changed, err)
	}

	if err := os.WriteFile(path, []byte(unsorted), 0644); err != nil {
		t.Fatal(err)
	}
	changed, err = SortFile(path)
	if err != nil || !changed {
		t.Fatalf("SortFile() = %v, %v; want true, nil", changed, err)
	}
	changed, err = SortFile(path)
	if err != nil || changed {
		t.Errorf("second SortFile() = %v, %v; want false, nil", changed, err)
	}
}

func TestRangeWarnings(t *testing.T) {
	in := `{"dependencies": {"vue": "^2.6.10", "local": "file:../lib", "weird": "banana", "gh": "user/repo", "tag": "latest"}}`
	warnings, err := RangeWarnings([]byte(in))
	if err != nil {
		t.Fatalf("RangeWarnings() error: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "weird") {
		t.Errorf("RangeWarnings() = %v, want one warning about weird", warnings)
	}
}

func assertOrder(t *testing.T, s string, keys ...string) {
	t.Helper()
	last := -1
	for _, k := range keys {
		i := strings.Index(s, k)
		if i < 0 {
			t.Fatalf("%s not found in:\n%s", k, s)
		}
		if i < last {
			t.Errorf("%s appears out of order in:\n%s", k, s)
		}
		last = i
	}
}

func TestSortDependencies_NoHTMLEscaping(t *testing.T) {
	out, err := SortDependencies([]byte(`{"devDependencies": {"b": ">=1.0.0 <2.0.0", "a": "^1.0.0"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `">=1.0.0 <2.0.0"`) {
		t.Errorf("range was escaped:\n%s", out)
	}
}
