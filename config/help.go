package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
VahanSeva ride booking service.

Usage:
  vahanseva [-config-path config.yaml]

Configuration is read from the yaml file (if present) and then from
environment variables. See config.yaml for the available keys.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
