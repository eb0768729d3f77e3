package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/domlayer/internal/config"
)

func newCheckCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a config file and list its elements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("config ok", "path", path, "elements", len(cfg.Elements))
			return printElements(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "domlayer.toml", "config file (.toml, .yaml)")
	return cmd
}

func printElements(out io.Writer, cfg *config.Config) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tX\tY\tHIDDEN\tTWEENS")
	for _, el := range cfg.Elements {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%t\t%d\n", el.ID, el.Name, el.X, el.Y, el.Hidden, len(el.Tweens))
	}
	return tw.Flush()
}
