package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/spritebatch/internal/cache"
	"github.com/rshade/spritebatch/internal/config"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scene query cache",
	}
	cmd.AddCommand(NewCacheClearCmd())
	return cmd
}

// NewCacheClearCmd creates the cache clear command, which removes every
// cached scene query.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached scene queries",
		Example: `  # Force the next render to re-read every blend file
  spritebatch cache clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.GetCacheDir()
			if err != nil {
				return err
			}
			store, err := cache.NewFileStore(dir, 0)
			if err != nil {
				return err
			}

			removed, err := store.Clear()
			if err != nil {
				return err
			}
			logger.Debug().Ctx(cmd.Context()).Str("dir", dir).Int("removed", removed).Msg("scene cache cleared")
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached scene(s) from %s\n", removed, dir)
			return nil
		},
	}
}
