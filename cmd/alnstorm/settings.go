package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/alnstorm/internal/config"
	"github.com/dshills/alnstorm/internal/config/loader"
)

func newSettingsCmd() *cobra.Command {
	var (
		configPath string
		sets       []string
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings and the layer supplying each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides, err := parseSettings(sets)
			if err != nil {
				return err
			}
			var opts []config.Option
			if configPath != "" {
				opts = append(opts, config.WithSettingsFile(configPath))
			}
			for path, value := range overrides {
				opts = append(opts, config.WithOverride(path, value))
			}
			c := config.New(opts...)
			defer c.Close()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			return printSettings(cmd.OutOrStdout(), c.Settings())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to a settings file (.toml, .yaml)")
	f.StringArrayVar(&sets, "set", nil, "override a setting, as path=value")
	return cmd
}

func printSettings(w io.Writer, settings []config.Setting) error {
	for _, s := range settings {
		if _, err := fmt.Fprintf(w, "%s = %v (%s)\n", s.Path, s.Value, s.Source); err != nil {
			return err
		}
	}
	return nil
}

// parseSettings parses --set arguments of the form path=value. Values are
// typed the same way as environment variables.
func parseSettings(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		path, value, ok := strings.Cut(arg, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
			return nil, fmt.Errorf("invalid setting %q, want path=value", arg)
		}
		out[path] = loader.ParseValue(value)
	}
	return out, nil
}
