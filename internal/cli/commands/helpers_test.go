package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/worklog/pkg/config"
)

const testLog = `i 2020/01/01 08:00:00 Acme backend api
o 2020/01/01 12:00:00
i 2020/01/01 13:00:00 Acme frontend
o 2020/01/01 16:30:00
i 2020/01/01 23:00:00 Admin email
o 2020/01/02 01:00:00
`

// isolate points HOME at an empty directory and clears the environment
// overrides so a developer's own config cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvLogFile, "")
	t.Setenv(config.EnvGroupDepth, "")
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// writeSetup writes testLog and a config pointing at it.
func writeSetup(t *testing.T, extraConfig string) (configPath, logPath string) {
	t.Helper()
	dir := t.TempDir()
	logPath = writeFile(t, dir, "worklog", testLog)
	configPath = writeFile(t, dir, "config.yaml",
		"log_file: "+logPath+"\nnon_billable: [admin]\n"+extraConfig)
	return configPath, logPath
}

func execute(cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
