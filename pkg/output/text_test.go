package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/worklog/pkg/analyzer"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want text", f.Name())
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := buildReport(t, testLog)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	expected := []string{
		"=== Worklog Report ===",
		"[2020-01-01] Wed  8.50h",
		"  08:00:00 - 12:00:00    4.00  Acme backend api",
		"  23:00:00 - 23:59:59    1.00  Admin email",
		"[2020-01-02] Thu  1.00h",
		"  00:00:00 - 01:00:00    1.00  Admin email",
		"Week of 2019-12-30: 9.50h over 2 day(s)",
		"Most time spent:",
		"  Acme     7.50h",
		"  Admin    2.00h  (non-billable)",
		"Total: 9.50h over 2 day(s) (billable 7.50h, non-billable 2.00h)",
	}
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("Output missing %q\n%s", exp, output)
		}
	}

	if strings.Contains(output, "Running:") {
		t.Error("Output should not report a running entry")
	}
	if strings.Contains(output, "Log file:") {
		t.Error("Non-verbose output should not include metadata")
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := buildReport(t, "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No time recorded") {
		t.Error("Output should say no time was recorded")
	}
	if !strings.Contains(output, "Total: 0.00h over 0 day(s)") {
		t.Errorf("Output missing zero total:\n%s", output)
	}
	if strings.Contains(output, "Most time spent:") {
		t.Error("Empty report should not rank groups")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := buildReport(t, testLog)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "Worklog: 9.50h over 2 day(s), 7.50h billable, 2.00h non-billable\n"
	if buf.String() != want {
		t.Errorf("Quiet output = %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := buildReport(t, testLog)
	report.Metadata.Filter = "!admin"

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	expected := []string{
		"Log file: test.log",
		"Filter: !admin",
		"Group depth: 1",
		"Generated: 2020/01/03 12:00:00",
	}
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("Verbose output missing %q", exp)
		}
	}
	if strings.Contains(output, "Window:") {
		t.Error("Unbounded window should not be printed")
	}
}

func TestTextFormatter_Format_Running(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	log := "i 2020/01/03 08:00:00 Acme\no 2020/01/03 09:00:00\ni 2020/01/03 10:00:00 Acme support\n"
	report := buildReport(t, log)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "  10:00:00 - running     2.00  Acme support") {
		t.Errorf("Output missing running interval:\n%s", output)
	}
	if !strings.Contains(output, `Running: "Acme support" since 2020/01/03 10:00:00`) {
		t.Errorf("Output missing running line:\n%s", output)
	}
}

func TestFormatGroups_WideRunes(t *testing.T) {
	groups := []analyzer.GroupHours{
		{Key: "日本語", Hours: 2.5},
		{Key: "Acme", Hours: 1},
	}

	var buf bytes.Buffer
	formatGroups(groups, "  ", &buf)

	want := "  日本語    2.50h\n" +
		"  Acme      1.00h\n"
	if buf.String() != want {
		t.Errorf("formatGroups() = %q, want %q", buf.String(), want)
	}
}
