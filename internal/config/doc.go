// Package config provides the runtime configuration of alnstorm.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	session         Config.Set at runtime
//	arguments       command-line flags
//	environment     ALNSTORM_* variables
//	user            settings.toml or settings.yaml
//	defaults        built in
//
// The user settings file lives in $XDG_CONFIG_HOME/alnstorm (or
// ~/.config/alnstorm) unless a file is given explicitly. When watching is
// enabled the file is reloaded on change and every setting whose effective
// value changed is published on the notifier under "config.<path>".
//
// # Sub-packages
//
//   - layer: layer storage and priority merging
//   - loader: TOML, YAML and environment loading
//   - watcher: fsnotify based file watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithWatcher(true))
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//	defer cfg.Close()
//
//	view := cfg.View()
//	sub := cfg.SubscribePath("view.wrap", func(c notify.Change) { ... })
//	defer sub.Unsubscribe()
package config
