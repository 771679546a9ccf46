// Command demo runs the example suites through the fixspec command line.
package main

import (
	"github.com/abdul-hamid-achik/fixspec/apps/cli/cmd"
	"github.com/abdul-hamid-achik/fixspec/apps/demo/suites"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(suites.Root(), version, buildTime)
}
