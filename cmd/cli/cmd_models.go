package main

import (
	"encoding/json"
	"fmt"

	"econsim/internal/config"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models a scenario can select",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()
			catalog := config.Catalog()

			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(catalog)
			}

			slot := ""
			for _, m := range catalog {
				if m.Slot != slot {
					if slot != "" {
						fmt.Fprintln(out)
					}
					slot = m.Slot
					fmt.Fprintf(out, "%s:\n", slot)
				}
				marker := " "
				if m.Default {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %-12s %s\n", marker, m.Name, m.Description)
				for _, p := range m.Parameters {
					fmt.Fprintf(out, "      %s (%s, default %v): %s\n", p.Name, p.Type, p.Default, p.Description)
				}
			}
			fmt.Fprintln(out, "\n* = default")
			return nil
		},
	}
}
