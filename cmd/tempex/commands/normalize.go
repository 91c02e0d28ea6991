package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/normalize"
)

// NormalizeCmd represents the normalize command
var NormalizeCmd = &cobra.Command{
	Use:   "normalize <expression>",
	Short: "Resolve a single time expression against an anchor date",
	Long: `tempex normalize — one-off time expression resolution.

Resolves the expression to a TimeML value against the anchor date
(default: today).

Examples:
  tempex normalize --anchor 2012-06-02 "yesterday"   # 2012-06-01
  tempex normalize "three weeks"                     # P3W
  tempex normalize "sometime"                        # UNRESOLVED`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

var normalizeAnchorFlag string

func init() {
	NormalizeCmd.Flags().StringVar(&normalizeAnchorFlag, "anchor", "", "Anchor date (YYYY-MM-DD, default: today)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	anchor := time.Now()
	if normalizeAnchorFlag != "" {
		parsed, err := time.Parse("2006-01-02", normalizeAnchorFlag)
		if err != nil {
			return errors.Wrapf(err, "parsing --anchor %q", normalizeAnchorFlag)
		}
		anchor = parsed
	}

	v := normalize.Normalize(args[0], anchor)
	if v.IsUnresolved() {
		cmd.Println("UNRESOLVED")
		return nil
	}
	cmd.Println(v.Text)
	return nil
}
