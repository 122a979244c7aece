// worklog - Time Log Reports
//
// worklog reads a plain-text activity log of clock-in and clock-out entries
// and reports the time spent per day, per description group and overall.
package main

import (
	"os"

	"github.com/ccollicutt/worklog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
