package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newInspectCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <repository> <module>",
		Short: "Print the metadata extracted from one module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.service.ModuleInfo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(detail)
			}

			writeLine(out, "Module:      %s", detail.Module)
			writeLine(out, "Repository:  %s", detail.Repository)
			writeLine(out, "Name:        %s", valueOr(detail.Name, "-"))
			writeLine(out, "Description: %s", valueOr(detail.Description, "-"))
			writeLine(out, "Banner:      %s", valueOr(detail.Banner, "-"))
			writeLine(out, "Developer:   %s", valueOr(detail.Developer, "-"))
			writeLine(out, "Source:      %s", detail.Link)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}
