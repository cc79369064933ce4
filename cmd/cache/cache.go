// Package cache handles pattern cache maintenance commands
package cache

import (
	"github.com/spf13/cobra"

	"moneymap/cmd/root"
	"moneymap/internal/config"
	"moneymap/internal/container"
)

// Cmd represents the cache command
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the learned pattern cache",
	RunE:  cacheFunc,
}

var clear bool

func init() {
	Cmd.Flags().BoolVar(&clear, "clear", false, "Remove all learned patterns")
}

func cacheFunc(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	// Cache maintenance never needs the classifier.
	cfg.AI.Enabled = false

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	patternCache := c.GetCache()

	if clear {
		patternCache.Clear()
		if err := patternCache.Save(); err != nil {
			return err
		}
		root.Log.Infof("Cleared pattern cache at %s", c.GetStore().Path())
		return nil
	}

	root.Log.Infof("Pattern cache at %s holds %d patterns", c.GetStore().Path(), patternCache.Len())
	return nil
}
