package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/collager/internal/templates"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTemplatesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the collage templates",
		Example: `  collager templates
  collager templates --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := templates.Default()
			out := cmd.OutOrStdout()

			switch output {
			case "yaml":
				data, err := yaml.Marshal(catalog.All())
				if err != nil {
					return fmt.Errorf("failed to marshal YAML: %w", err)
				}
				_, err = out.Write(data)
				return err
			case "table":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tNAME\tASPECT\tSLOTS")
				for _, t := range catalog.All() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", t.Key, t.Name, t.AspectRatio, len(t.Slots))
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unsupported output format: %s (supported: table, yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table or yaml)")

	return cmd
}
