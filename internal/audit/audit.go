package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Swapped out in tests.
var execCommand = exec.Command

// Finding is one vulnerability reported by npm audit.
type Finding struct {
	Package  string
	Severity string
	Title    string
	URL      string
	Range    string
}

// Report summarizes an npm audit run.
type Report struct {
	Total    int
	Critical int
	High     int
	Moderate int
	Low      int
	Findings []Finding
}

// HasBlocking reports whether critical or high severity findings exist.
func (r *Report) HasBlocking() bool {
	return r.Critical > 0 || r.High > 0
}

// Run audits the given packages at their latest versions. A scratch
// package.json naming them as dependencies is written to dir, resolved with
// a lockfile-only install, then audited. Any failure returns an error the
// caller treats as non-fatal.
func Run(dir string, packages []string) (*Report, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("no packages to audit")
	}

	deps := make(map[string]string, len(packages))
	for _, name := range packages {
		deps[name] = "latest"
	}
	manifest, err := json.MarshalIndent(map[string]any{
		"name":         "voltamanager-audit",
		"version":      "1.0.0",
		"dependencies": deps,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to build audit manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), manifest, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write audit manifest: %w", err)
	}

	install := execCommand("npm", "install", "--package-lock-only")
	install.Dir = dir
	if err := install.Run(); err != nil {
		return nil, fmt.Errorf("failed to resolve audit lockfile: %w", err)
	}

	// npm audit exits nonzero when vulnerabilities exist; the JSON on
	// stdout is still the answer.
	auditCmd := execCommand("npm", "audit", "--json")
	auditCmd.Dir = dir
	out, err := auditCmd.Output()
	if len(out) == 0 {
		if err != nil {
			return nil, fmt.Errorf("npm audit produced no output: %w", err)
		}
		return nil, fmt.Errorf("npm audit produced no output")
	}

	return Parse(out)
}

// auditJSON matches the npm audit v7+ output shape.
type auditJSON struct {
	Vulnerabilities map[string]struct {
		Severity string          `json:"severity"`
		Range    string          `json:"range"`
		Via      json.RawMessage `json:"via"`
	} `json:"vulnerabilities"`
	Metadata struct {
		Vulnerabilities struct {
			Total    int `json:"total"`
			Critical int `json:"critical"`
			High     int `json:"high"`
			Moderate int `json:"moderate"`
			Low      int `json:"low"`
		} `json:"vulnerabilities"`
	} `json:"metadata"`
}

// Parse converts raw npm audit JSON into a Report.
func Parse(data []byte) (*Report, error) {
	var raw auditJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse audit output: %w", err)
	}

	report := &Report{
		Total:    raw.Metadata.Vulnerabilities.Total,
		Critical: raw.Metadata.Vulnerabilities.Critical,
		High:     raw.Metadata.Vulnerabilities.High,
		Moderate: raw.Metadata.Vulnerabilities.Moderate,
		Low:      raw.Metadata.Vulnerabilities.Low,
	}

	for name, vuln := range raw.Vulnerabilities {
		finding := Finding{
			Package:  name,
			Severity: strings.ToLower(vuln.Severity),
			Range:    vuln.Range,
		}

		// via is a mixed array: advisory objects and/or plain package
		// name strings for transitive findings.
		var via []json.RawMessage
		if err := json.Unmarshal(vuln.Via, &via); err == nil && len(via) > 0 {
			var advisory struct {
				Title string `json:"title"`
				URL   string `json:"url"`
			}
			if err := json.Unmarshal(via[0], &advisory); err == nil {
				finding.Title = advisory.Title
				finding.URL = advisory.URL
			}
		}

		report.Findings = append(report.Findings, finding)
	}

	return report, nil
}
