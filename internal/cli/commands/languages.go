package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Long: `List every target language with its native name and the backends that
can translate into it. Use the name as TARGET_LANGUAGE.`,
		Args: cobra.NoArgs,
		RunE: runLanguages,
	}
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LANGUAGE\tNATIVE\tCODE\tBACKENDS")
	for _, lang := range translator.Languages() {
		backends := translator.BackendChatGPT + ", " + translator.BackendGoogle
		if lang.DeepL != "" {
			backends += ", " + translator.BackendDeepL
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", lang.Name, lang.NativeName(), lang.Tag.String(), backends)
	}
	return w.Flush()
}
