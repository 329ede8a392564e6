package volta

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseList(t *testing.T) {
	out := `⚡️ Node: v20.11.0 (default)
    npm: built-in
package typescript@5.0.0
package eslint@8.56.0
package @vue/cli@5.0.8
package prettier@project
tool yarn@1.22.19
`

	got := parseList(out)
	want := []string{"typescript@5.0.0", "eslint@8.56.0", "@vue/cli@5.0.8", "prettier@project"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseList = %v, want %v", got, want)
	}
}

func TestParseListEmpty(t *testing.T) {
	if got := parseList(""); len(got) != 0 {
		t.Errorf("parseList(\"\") = %v, want empty", got)
	}
	if got := parseList("⚡️ Node: v20.11.0\n"); len(got) != 0 {
		t.Errorf("parseList without package lines = %v, want empty", got)
	}
}

func TestCheckDependencies(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	tests := []struct {
		name    string
		missing string
		wantErr string
	}{
		{"all present", "", ""},
		{"volta missing", "volta", "volta not found"},
		{"npm missing", "npm", "npm not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath = func(file string) (string, error) {
				if file == tt.missing {
					return "", errors.New("not found")
				}
				return "/usr/bin/" + file, nil
			}

			err := CheckDependencies()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
