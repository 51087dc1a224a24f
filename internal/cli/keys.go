package cli

import (
	"fmt"

	"github.com/Station-Manager/adaptr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newKeysCmd() *cobra.Command {
	var overrides map[string]string
	cmd := &cobra.Command{
		Use:   "keys <method>...",
		Short: "Print the record key each method resolves to",
		Example: `  adaptr keys GetName IsActive get
  adaptr keys --override GetAge=age_in_years GetAge`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := LoadConfig(path)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			a := adaptr.NewBuilder().
				WithOptions(adaptr.WithLogger(logger)).
				AddOverrides(cfg.OverrideMap()).
				AddOverrides(overrides).
				Build()
			logger.Debug("resolving keys", zap.Int("config_overrides", len(cfg.Overrides)), zap.Int("flag_overrides", len(overrides)))

			out := cmd.OutOrStdout()
			for _, method := range args {
				key, err := a.ResolveKey(nil, method)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "%s -> %s\n", method, key); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&overrides, "override", nil, "method=key override, repeatable; wins over the config file")
	return cmd
}
