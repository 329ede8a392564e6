package volta

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Swapped out in tests.
var (
	execCommand = exec.Command
	lookPath    = exec.LookPath
)

// CheckDependencies verifies that volta and npm are reachable on PATH.
// npm is needed to query the registry even though volta performs installs.
func CheckDependencies() error {
	if _, err := lookPath("volta"); err != nil {
		return errors.New("volta not found in PATH (install it from https://volta.sh)")
	}
	if _, err := lookPath("npm"); err != nil {
		return errors.New("npm not found in PATH (needed to query the registry)")
	}
	return nil
}

// ListPackages returns the raw name@version tokens of every Volta-managed
// global package.
func ListPackages() ([]string, error) {
	out, err := execCommand("volta", "list", "--format=plain").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list volta packages: %w", err)
	}
	return parseList(string(out)), nil
}

// parseList extracts package tokens from volta's plain listing, where
// package lines look like "package typescript@5.0.0".
func parseList(out string) []string {
	var tokens []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "package ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			tokens = append(tokens, fields[1])
		}
	}
	return tokens
}

// Install runs a single volta install for all given specs, streaming output
// to the terminal, and returns the command's exit code.
func Install(specs []string) int {
	cmd := execCommand("volta", append([]string{"install"}, specs...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}
