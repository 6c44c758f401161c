// Package scenario holds the named answer sets used to exercise the
// generator without a terminal.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/webext-kit/webext/internal/answers"
	"github.com/webext-kit/webext/internal/branding"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// ErrUnknown is returned by Lookup for a name that is not defined.
var ErrUnknown = errors.New("unknown scenario")

// Scenario is a named, fixed set of answers.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Answers     map[string]any `yaml:"answers"`
}

// Store converts the scenario's answers into a fresh store.
func (s Scenario) Store() (*answers.Store, error) {
	st, err := answers.FromMap(s.Answers)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return st, nil
}

type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

var (
	once    sync.Once
	all     []Scenario
	loadErr error
)

func load() {
	once.Do(func() {
		var f file
		if err := yaml.Unmarshal(scenariosYAML, &f); err != nil {
			loadErr = fmt.Errorf("parsing embedded scenarios: %w", err)
			return
		}
		all = f.Scenarios
	})
}

// All returns every scenario, in file order.
func All() ([]Scenario, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Scenario, len(all))
	copy(out, all)
	return out, nil
}

// Names returns the scenario names, sorted.
func Names() []string {
	list, _ := All()
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, error) {
	list, err := All()
	if err != nil {
		return Scenario{}, err
	}
	for _, s := range list {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w %q (known: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
}

// EnvVar is the environment variable that selects a scenario.
func EnvVar() string {
	return branding.EnvVar("TEST_SCENARIO")
}

// FromEnv returns the scenario named by EnvVar, if set.
func FromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvVar()))
}
