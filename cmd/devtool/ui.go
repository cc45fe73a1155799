package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	colorGreen  = "\033[0;32m"
	colorRed    = "\033[0;31m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

// Colors are suppressed when NO_COLOR is set or stdout is not a terminal,
// keeping CI and container logs free of escape codes.
var colorEnabled = os.Getenv("NO_COLOR") == "" && isTerminal(os.Stdout)

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + colorReset
}

// UI helpers

func PrintInfo(format string, a ...interface{}) {
	fmt.Printf(paint(colorBlue, "ℹ "+format)+"\n", a...)
}

func PrintSuccess(format string, a ...interface{}) {
	fmt.Printf(paint(colorGreen, "✓ "+format)+"\n", a...)
}

func PrintWarning(format string, a ...interface{}) {
	fmt.Printf(paint(colorYellow, "⚠ "+format)+"\n", a...)
}

func PrintError(format string, a ...interface{}) {
	fmt.Printf(paint(colorRed, "✗ "+format)+"\n", a...)
}

func PrintHeader(title string) {
	fmt.Printf("\n"+paint(colorYellow, "=== %s ===")+"\n", title)
}

// Command execution helpers

// checkHostile rejects argument strings that could split or chain commands if
// they ever reach a shell. Kept permissive enough for URLs and SQL fragments.
func checkHostile(inputs ...string) error {
	for _, s := range inputs {
		if strings.ContainsAny(s, "\n\r") {
			return fmt.Errorf("hostile input detected: newlines or carriage returns")
		}

		if strings.Contains(s, "\x00") {
			return fmt.Errorf("hostile input detected: null byte")
		}

		dangerousPats := []string{"|", "`", "$(", "&&", "||", ">", "<"}
		for _, p := range dangerousPats {
			if strings.Contains(s, p) {
				return fmt.Errorf("hostile input detected: pattern %q in %q", p, s)
			}
		}
	}
	return nil
}

func getCommandOutput(name string, args ...string) (string, error) {
	if err := checkHostile(append([]string{name}, args...)...); err != nil {
		return "", err
	}
	// #nosec G204 - Generic command wrapper
	cmd := exec.Command(name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// runCommand runs a command silently
func runCommand(name string, args ...string) error {
	if err := checkHostile(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - Generic command wrapper
	cmd := exec.Command(name, args...)
	return cmd.Run()
}

// runCommandVerbose runs a command and pipes output to stdout/stderr
func runCommandVerbose(name string, args ...string) error {
	if err := checkHostile(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - Generic command wrapper
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
