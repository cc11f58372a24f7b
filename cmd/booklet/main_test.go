package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/local/booklet/internal/booklet"
	"github.com/local/booklet/internal/imposition"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInstructionsCommand(t *testing.T) {
	out, err := execute(t, "instructions")
	if err != nil {
		t.Fatalf("instructions: %v", err)
	}
	if out != booklet.Instructions {
		t.Errorf("output = %q", out)
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "plan", "6", "--front", "1", "--bundle-length", "20")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "6 pages + 1 front + 0 back + 1 trailing blanks = 8 padded pages in 1 bundle(s)") {
		t.Errorf("missing summary line:\n%s", out)
	}
	// Sheet 2 front holds padded slots 5 and 2: document pages 5 and 2.
	for _, want := range []string{"- | -", "5 | 2", "1 | 6", "3 | 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlanSplitsBundles(t *testing.T) {
	out, err := execute(t, "plan", "16", "--bundle-length", "2")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "in 4 bundle(s)") {
		t.Errorf("want 4 bundles:\n%s", out)
	}
	if !strings.Contains(out, "8 | 5") {
		t.Errorf("bundle 2 front missing:\n%s", out)
	}
}

func TestPlanOddBundleLength(t *testing.T) {
	out, err := execute(t, "plan", "8", "--bundle-length", "3")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "= 8 padded pages in 2 bundle(s)") {
		t.Errorf("want a 6-page and a 2-page bundle:\n%s", out)
	}
	// The 2-page bundle is half a sheet: page 7 on the front, page 8 on the back.
	for _, want := range []string{"- | 7", "8 | -"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	if _, err := execute(t, "plan", "0"); !errors.Is(err, imposition.ErrInput) {
		t.Errorf("plan 0 error = %v, want ErrInput", err)
	}
	if _, err := execute(t, "plan", "8", "--bundle-length", "0"); !errors.Is(err, imposition.ErrConfig) {
		t.Errorf("bundle-length 0 error = %v, want ErrConfig", err)
	}
}
