// Package cli provides the command-line interface for the TD2 chat translator.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/td2-chat-translator/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// SilenceErrors keeps cobra from printing this itself
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "td2-translator",
		Short: "Translate Train Driver 2 chat as it happens",
		Long: `td2-translator follows the newest Train Driver 2 log file, picks out chat
messages and shows each one translated into the language you choose.

Backends:
  Google Translate  no key needed
  DeepL             needs DEEPL_API_KEY
  ChatGPT           needs LLM_API_KEY (any OpenAI-compatible endpoint)

Configuration is read from the environment and from a .env file in the
working directory. Language, backend and show-original are remembered
between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewLanguagesCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
