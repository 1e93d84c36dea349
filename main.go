// SPDX-License-Identifier: Apache-2.0
package main

import (
	"github.com/CLAV88/office-addin/cmd"
)

func main() {
	cmd.Execute()
}
