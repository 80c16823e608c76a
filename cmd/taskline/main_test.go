package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, dir, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(input), &out, &errOut)
	base := []string{
		"--config", filepath.Join(dir, "config.toml"),
		"--db", filepath.Join(dir, "tasks.db"),
		"--log-level", "error",
	}
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCLIPersistsBetweenRuns(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runCLI(t, dir, "todo read book\ndeadline return book /by 2019-10-15\ndone 1\nbye\n")
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if !strings.Contains(out, "Now you have 2 tasks in the list.") {
		t.Errorf("unexpected first run output:\n%s", out)
	}

	out, _, err = runCLI(t, dir, "list\n")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	want := "1. [T][X] read book\n2. [D][ ] return book (by: Oct 15 2019)"
	if !strings.Contains(out, want) {
		t.Errorf("second run output missing saved list:\n%s", out)
	}
	if !strings.HasSuffix(out, "Bye. Hope to see you again soon!\n") {
		t.Errorf("end of input should say goodbye:\n%s", out)
	}
}

func TestCLIRejectsArgs(t *testing.T) {
	if _, _, err := runCLI(t, t.TempDir(), "", "extra"); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestCLIBadConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"--config", t.TempDir()})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error when config path is a directory")
	}
}
