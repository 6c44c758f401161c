package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "webext" {
		t.Errorf("CLIName() = %q, want %q", got, "webext")
	}
	if got := HomeDir(); got != ".webext" {
		t.Errorf("HomeDir() = %q, want %q", got, ".webext")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("test_scenario"); got != "WEBEXT_TEST_SCENARIO" {
		t.Errorf("EnvVar() = %q, want %q", got, "WEBEXT_TEST_SCENARIO")
	}
}

func TestDocsURL(t *testing.T) {
	if got := DocsURL(); got != "https://github.com/webext-kit/webext#readme" {
		t.Errorf("DocsURL() = %q", got)
	}
}
