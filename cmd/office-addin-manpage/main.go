// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/CLAV88/office-addin/cmd"
)

func main() {
	rootCmd := cmd.GetRootCommand()

	header := &doc.GenManHeader{
		Title:   "OFFICE-ADDIN",
		Section: "1",
		Source:  "office-addin " + cmd.Version,
		Manual:  "office-addin manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
