// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question on the terminal. The signature matches
// the confirmation callbacks taken by the certificate and setup
// packages, so it can be passed to them directly.
func Confirm(prompt string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}
