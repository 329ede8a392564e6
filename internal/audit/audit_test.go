package audit

import "testing"

const sampleAudit = `{
  "vulnerabilities": {
    "minimist": {
      "severity": "critical",
      "range": "<0.2.4",
      "via": [
        {
          "title": "Prototype Pollution in minimist",
          "url": "https://github.com/advisories/GHSA-xvch-5gv4-984h"
        }
      ]
    },
    "mkdirp": {
      "severity": "moderate",
      "range": "0.4.1 - 0.5.1",
      "via": ["minimist"]
    }
  },
  "metadata": {
    "vulnerabilities": {
      "total": 2,
      "critical": 1,
      "high": 0,
      "moderate": 1,
      "low": 0
    }
  }
}`

func TestParse(t *testing.T) {
	report, err := Parse([]byte(sampleAudit))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if report.Total != 2 || report.Critical != 1 || report.Moderate != 1 {
		t.Errorf("counts = %+v", report)
	}
	if !report.HasBlocking() {
		t.Error("critical finding should be blocking")
	}
	if len(report.Findings) != 2 {
		t.Fatalf("findings = %d, want 2", len(report.Findings))
	}

	var minimist *Finding
	for i := range report.Findings {
		if report.Findings[i].Package == "minimist" {
			minimist = &report.Findings[i]
		}
	}
	if minimist == nil {
		t.Fatal("minimist finding missing")
	}
	if minimist.Title != "Prototype Pollution in minimist" {
		t.Errorf("title = %q", minimist.Title)
	}
	if minimist.Severity != "critical" {
		t.Errorf("severity = %q", minimist.Severity)
	}
}

func TestParseCleanAudit(t *testing.T) {
	report, err := Parse([]byte(`{"vulnerabilities":{},"metadata":{"vulnerabilities":{"total":0}}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if report.Total != 0 || report.HasBlocking() {
		t.Errorf("clean audit misreported: %+v", report)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("expected parse error for garbage input")
	}
}
