package cli

import (
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	rootCmd := NewRootCommand()

	if rootCmd.Use != "worklog" {
		t.Errorf("Use = %q, want worklog", rootCmd.Use)
	}
	for _, name := range []string{"report", "watch", "diagnose", "validate", "version"} {
		if !isBuiltinCommand(rootCmd, name) {
			t.Errorf("missing built-in command %q", name)
		}
	}
	if !rootCmd.SilenceErrors || !rootCmd.SilenceUsage {
		t.Error("root command should silence cobra errors and usage")
	}
}

func TestPluginCandidate(t *testing.T) {
	rootCmd := NewRootCommand()

	tests := []struct {
		args   []string
		want   string
		wantOK bool
	}{
		{nil, "", false},
		{[]string{"report", "--today"}, "", false},
		{[]string{"help"}, "", false},
		{[]string{"completion", "bash"}, "", false},
		{[]string{"--help"}, "", false},
		{[]string{"start", "Acme api"}, "start", true},
		{[]string{"status"}, "status", true},
	}

	for _, tt := range tests {
		got, ok := pluginCandidate(rootCmd, tt.args)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("pluginCandidate(%v) = (%q, %v), want (%q, %v)", tt.args, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRun_ExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", t.TempDir())

	if code := run([]string{"version"}); code != 0 {
		t.Errorf("run(version) = %d, want 0", code)
	}
	if code := run([]string{"report", "--log-file", "/nonexistent/worklog"}); code != 2 {
		t.Errorf("run(report missing log) = %d, want 2", code)
	}
	if code := run([]string{"no-such-plugin-xyz"}); code != 2 {
		t.Errorf("run(unknown plugin) = %d, want 2", code)
	}
}
