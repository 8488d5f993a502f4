package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/pkg/pipeline"
)

// exploreCommand creates the explore command for browsing a codebook.
func (c *CLI) exploreCommand() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "explore [file|-]",
		Short: "Browse the codebook of a text interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := readInput(cmd, args, text)
			if err != nil {
				return err
			}
			table, err := pipeline.Analyze(string(data))
			if err != nil {
				return err
			}
			root, err := pipeline.BuildTree(table)
			if err != nil {
				return err
			}

			progOpts := []tea.ProgramOption{
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if len(args) == 1 && args[0] == "-" {
				// stdin carried the text; read keys from the terminal.
				progOpts = append(progOpts, tea.WithInputTTY())
			}
			_, err = tea.NewProgram(NewCodebookModel(table, root), progOpts...).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "explore this text instead of a file")
	return cmd
}
