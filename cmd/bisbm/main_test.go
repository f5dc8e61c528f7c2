package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEdgeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write edge list: %v", err)
	}
	return path
}

func TestRunSuccess(t *testing.T) {
	path := writeEdgeList(t, "0 2\n0 3\n1 2\n1 3\n")

	code := run([]string{
		"-e", path,
		"-n", "2 2",
		"-y", "2 2",
		"-z", "1 1",
		"-t", "20",
		"-x", "5",
		"-E", "1",
		"-c", "constant",
		"-a", "1",
		"-m",
		"-d", "1",
		"-log_level", "error",
	})
	if code != 0 {
		t.Errorf("run returned %d, want 0", code)
	}
}

func TestRunWithMembershipFile(t *testing.T) {
	edges := writeEdgeList(t, "0 2\n0 3\n1 2\n1 3\n")
	memberships := filepath.Join(t.TempDir(), "memberships.txt")
	if err := os.WriteFile(memberships, []byte("0\n0\n1\n1\n"), 0o644); err != nil {
		t.Fatalf("failed to write memberships: %v", err)
	}

	code := run([]string{
		"-e", edges,
		"-membership_path", memberships,
		"-y", "2 2",
		"-t", "20",
		"-x", "5",
		"-E", "1",
		"-c", "constant",
		"-a", "1",
		"-m",
		"-d", "1",
		"-log_level", "error",
	})
	if code != 0 {
		t.Errorf("run returned %d, want 0", code)
	}
}

func TestRunErrors(t *testing.T) {
	path := writeEdgeList(t, "0 2\n0 3\n1 2\n1 3\n")

	base := []string{
		"-e", path,
		"-n", "2 2",
		"-y", "2 2",
		"-z", "1 1",
		"-t", "20",
		"-x", "5",
		"-E", "1",
		"-c", "constant",
		"-m",
		"-log_level", "disabled",
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing maximize flag", []string{"-e", path, "-n", "2 2", "-y", "2 2", "-z", "1 1", "-E", "1", "-log_level", "disabled"}},
		{"missing edge list", []string{"-n", "2 2", "-y", "2 2", "-z", "1 1", "-E", "1", "-m", "-log_level", "disabled"}},
		{"wrong type count", []string{"-e", path, "-n", "2 2", "-y", "4", "-z", "1 1", "-E", "1", "-m", "-log_level", "disabled"}},
		{"missing epsilon", []string{"-e", path, "-n", "2 2", "-y", "2 2", "-z", "1 1", "-m", "-log_level", "disabled"}},
		{"missing block sizes", []string{"-e", path, "-y", "2 2", "-z", "1 1", "-E", "1", "-m", "-log_level", "disabled"}},
		{"missing group counts", []string{"-e", path, "-n", "2 2", "-y", "2 2", "-E", "1", "-m", "-log_level", "disabled"}},
		{"sizes do not sum", []string{"-e", path, "-n", "3 2", "-y", "2 2", "-z", "1 1", "-E", "1", "-m", "-log_level", "disabled"}},
		{"bad epsilon", append(append([]string{}, base...), "-E", "0")},
		{"bad schedule", []string{"-e", path, "-n", "2 2", "-y", "2 2", "-z", "1 1", "-E", "1", "-m", "-c", "quench", "-log_level", "disabled"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := run(tt.args); code != 1 {
				t.Errorf("run returned %d, want 1", code)
			}
		})
	}
}

func TestIntListParsing(t *testing.T) {
	var list intList
	if err := list.Set("3 5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := list.Set("7,9"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	want := []int{3, 5, 7, 9}
	if len(list) != len(want) {
		t.Fatalf("got %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("list[%d] = %d, want %d", i, list[i], want[i])
		}
	}
	if err := list.Set("x"); err == nil {
		t.Error("expected error for non-integer")
	}
	if list.String() == "" {
		t.Error("String() should render values")
	}
}

func TestFloatListParsing(t *testing.T) {
	var list floatList
	if err := list.Set("1 0.5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(list) != 2 || list[0] != 1 || list[1] != 0.5 {
		t.Errorf("got %v, want [1 0.5]", list)
	}
	if err := list.Set("y"); err == nil {
		t.Error("expected error for non-float")
	}
}
