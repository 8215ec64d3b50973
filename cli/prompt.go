// Package cli holds the interactive bits of the command line.
package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
)

// PromptPassword asks for the database password with masked input. An empty
// answer is allowed.
func PromptPassword(user, host string) (string, error) {
	var password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Password for %s@%s", user, host)).
				Description("Leave empty for no password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithKeyMap(huh.NewDefaultKeyMap())

	if err := form.Run(); err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return password, nil
}
