package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/charmbracelet/lipgloss"

	"github.com/kjanat/voltamanager/internal/pkgid"
	"github.com/kjanat/voltamanager/internal/status"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	outdatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	boldStyle     = lipgloss.NewStyle().Bold(true)
)

const (
	nameWidth    = 42
	versionWidth = 12
)

// Table renders package status records as an aligned, colorized table.
// With outdatedOnly set, only outdated and unknown rows are shown.
func Table(records []status.Record, outdatedOnly bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		headerStyle.Render(pad("Package", nameWidth)),
		headerStyle.Render(pad("Installed", versionWidth)),
		headerStyle.Render(pad("Latest", versionWidth)),
		headerStyle.Render("Status"))
	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		strings.Repeat("-", nameWidth),
		strings.Repeat("-", versionWidth),
		strings.Repeat("-", versionWidth),
		"------")

	for _, r := range records {
		if outdatedOnly && r.State != status.Outdated && r.State != status.Unknown {
			continue
		}

		label := r.State.String()
		style := dimStyle
		switch r.State {
		case status.Outdated:
			style = outdatedStyle
			if status.IsMajorBump(r.Installed, r.Latest) {
				label += " !"
			}
		case status.UpToDate:
			style = okStyle
		}

		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			nameStyle.Render(pad(r.Name, nameWidth)),
			pad(r.Installed, versionWidth),
			pad(r.Latest, versionWidth),
			style.Render(label))
	}

	return b.String()
}

// Statistics renders the per-state summary shown under the table.
func Statistics(records []status.Record) string {
	counts := map[status.State]int{}
	for _, r := range records {
		counts[r.State]++
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render("Summary:") + "\n")
	fmt.Fprintf(&b, "  Total packages: %d\n", len(records))
	fmt.Fprintf(&b, "  Up-to-date: %d\n", counts[status.UpToDate])
	fmt.Fprintf(&b, "  Outdated: %d\n", counts[status.Outdated])
	fmt.Fprintf(&b, "  Project-pinned: %d\n", counts[status.Project])
	fmt.Fprintf(&b, "  Unknown: %d\n", counts[status.Unknown])
	if counts[status.Excluded] > 0 {
		fmt.Fprintf(&b, "  Excluded: %d\n", counts[status.Excluded])
	}
	return b.String()
}

// JSON renders records as indented JSON for machine consumption.
func JSON(records []status.Record) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	return string(data), nil
}

// Toon renders records in the token-efficient toon format.
func Toon(records []status.Record) (string, error) {
	out, err := gotoon.Encode(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	return out, nil
}

// DryRunReport lists the planned updates without mutating anything.
func DryRunReport(plan []string, records []status.Record) string {
	byName := make(map[string]status.Record, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}

	var b strings.Builder
	b.WriteString("Dry run report:\n")
	fmt.Fprintf(&b, "  Packages to update: %d\n", len(plan))
	for _, spec := range plan {
		name, _ := pkgid.Parse(spec)
		if r, ok := byName[name]; ok {
			fmt.Fprintf(&b, "  %s: %s -> %s\n", nameStyle.Render(name), r.Installed, r.Latest)
		} else {
			fmt.Fprintf(&b, "  %s\n", nameStyle.Render(name))
		}
	}
	return b.String()
}

// MajorUpdateWarning lists outdated packages whose update crosses a major
// version, with a changelog pointer. Returns "" when none apply.
func MajorUpdateWarning(records []status.Record, limit int) string {
	var majors []status.Record
	for _, r := range records {
		if r.State == status.Outdated && r.Latest != status.UnknownVersion &&
			status.IsMajorBump(r.Installed, r.Latest) {
			majors = append(majors, r)
		}
	}
	if len(majors) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(warnStyle.Render("Major version updates detected (may have breaking changes):") + "\n")
	shown := majors
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, r := range shown {
		fmt.Fprintf(&b, "  %s: %s -> %s\n", r.Name, r.Installed, r.Latest)
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render(ChangelogURL(r.Name)))
	}
	if len(majors) > len(shown) {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("...and %d more major updates", len(majors)-len(shown))))
	}
	return b.String()
}

// MinorUpdateCount counts outdated packages whose update stays within the
// installed major version.
func MinorUpdateCount(records []status.Record) int {
	n := 0
	for _, r := range records {
		if r.State == status.Outdated && status.IsMinorBump(r.Installed, r.Latest) {
			n++
		}
	}
	return n
}

// ChangelogURL points at the package's version history on the registry.
func ChangelogURL(name string) string {
	return fmt.Sprintf("https://www.npmjs.com/package/%s?activeTab=versions", name)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
