package toolrun

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Requirement is a tool the generated project may need.
type Requirement struct {
	Name       string
	MinVersion string // semver constraint such as ">= 10.13.0"; empty means any
	Optional   bool
}

// DefaultRequirements are checked by "doctor".
var DefaultRequirements = []Requirement{
	{Name: "node", MinVersion: ">= 10.13.0"},
	{Name: "npm", MinVersion: ">= 6.0.0"},
	{Name: "yarn", MinVersion: ">= 1.0.0", Optional: true},
	{Name: "git", Optional: true},
}

// CheckStatus is the outcome for one tool.
type CheckStatus string

const (
	StatusOK       CheckStatus = "OK"
	StatusMissing  CheckStatus = "MISS"
	StatusOutdated CheckStatus = "OLD"
	StatusUnknown  CheckStatus = "WARN"
)

// CheckResult is one line of the doctor report.
type CheckResult struct {
	Requirement Requirement
	Status      CheckStatus
	Version     string
	Detail      string
}

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?)`)

// CheckTools runs "<tool> --version" for every requirement.
func CheckTools(ctx context.Context, r CommandRunner, reqs []Requirement) []CheckResult {
	results := make([]CheckResult, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, checkTool(ctx, r, req))
	}
	return results
}

func checkTool(ctx context.Context, r CommandRunner, req Requirement) CheckResult {
	res := CheckResult{Requirement: req}

	out, err := r.Run(ctx, Command{Name: req.Name, Args: []string{"--version"}})
	if err != nil {
		res.Status = StatusMissing
		res.Detail = err.Error()
		return res
	}
	if out.ExitCode != 0 {
		res.Status = StatusUnknown
		res.Detail = fmt.Sprintf("--version exited with status %d", out.ExitCode)
		return res
	}

	m := versionPattern.FindStringSubmatch(out.Stdout)
	if m == nil {
		res.Status = StatusUnknown
		res.Detail = "could not read version from " + strings.TrimSpace(out.Stdout)
		return res
	}
	res.Version = m[1]

	if req.MinVersion == "" {
		res.Status = StatusOK
		return res
	}

	ok, err := SatisfiesConstraint(res.Version, req.MinVersion)
	switch {
	case err != nil:
		res.Status = StatusUnknown
		res.Detail = err.Error()
	case !ok:
		res.Status = StatusOutdated
		res.Detail = "need " + req.MinVersion
	default:
		res.Status = StatusOK
	}
	return res
}

// SatisfiesConstraint reports whether version meets constraint. A leading
// "v" on the version is tolerated.
func SatisfiesConstraint(version, constraint string) (bool, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}

// PrintChecks writes the doctor report and returns the number of required
// tools that are missing or too old.
func PrintChecks(w io.Writer, results []CheckResult) int {
	fmt.Fprintln(w, "Tool check:")
	failures := 0
	for _, r := range results {
		name := r.Requirement.Name
		if r.Requirement.Optional {
			name += " (optional)"
		}
		switch r.Status {
		case StatusOK:
			fmt.Fprintf(w, "  [ OK ] %s %s\n", name, r.Version)
		default:
			fmt.Fprintf(w, "  [%-4s] %s %s\n", r.Status, name, r.Detail)
			if !r.Requirement.Optional && r.Status != StatusUnknown {
				failures++
			}
		}
	}
	return failures
}
