package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/mkp/pkg/errors"
)

// GenCompletion writes the completion script for shell
func GenCompletion(rootCmd *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown shell: %s (supported: bash, zsh, fish, powershell)", shell)
	}
}
