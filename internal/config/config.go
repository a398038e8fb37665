package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dshills/alnstorm/internal/config/layer"
	"github.com/dshills/alnstorm/internal/config/loader"
	"github.com/dshills/alnstorm/internal/config/watcher"
	"github.com/dshills/alnstorm/internal/logging"
	"github.com/dshills/alnstorm/internal/notify"
)

// TopicPrefix is the notifier topic under which setting changes are
// published, e.g. "config.view.wrap".
const TopicPrefix = "config"

// Layer names.
const (
	layerDefaults = "defaults"
	layerUser     = "user"
	layerEnv      = "environment"
	layerArgs     = "arguments"
	layerSession  = "session"
)

// settingsFiles are looked up in order in the user configuration directory.
var settingsFiles = []string{"settings.toml", "settings.yaml", "settings.yml"}

// Config provides layered access to settings with live reload and change
// notification.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	watcher  *watcher.Watcher
	notifier *notify.Notifier
	ownsNtf  bool
	log      *logging.Logger
	fs       loader.FileSystem

	userConfigDir string
	settingsPath  string
	environ       []string
	overrides     map[string]any

	enableWatcher bool
	stopWatch     func() bool

	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the directory searched for the settings file.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithSettingsFile uses path as the user settings file. Its extension
// selects the format.
func WithSettingsFile(path string) Option {
	return func(c *Config) {
		c.settingsPath = path
	}
}

// WithWatcher enables reloading the settings file when it changes.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithNotifier publishes changes on n instead of a private notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(c *Config) {
		if n != nil {
			c.notifier = n
			c.ownsNtf = false
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.log = logging.OrNull(l).WithComponent("config")
	}
}

// WithEnviron reads settings from the given KEY=VALUE pairs instead of the
// process environment.
func WithEnviron(environ []string) Option {
	return func(c *Config) {
		c.environ = environ
	}
}

// WithOverride sets path in the command-line layer.
func WithOverride(path string, value any) Option {
	return func(c *Config) {
		if c.overrides == nil {
			c.overrides = make(map[string]any)
		}
		layer.SetByPath(c.overrides, path, value)
	}
}

// New creates a Config holding only the built-in defaults. Call Load to
// read the other sources.
func New(opts ...Option) *Config {
	c := &Config{
		layers:   layer.NewManager(),
		notifier: notify.New(),
		ownsNtf:  true,
		log:      logging.Null(),
		fs:       loader.OSFS{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}
	c.layers.Put(layer.New(layerDefaults, layer.SourceBuiltin, defaultConfig()))
	return c
}

// Load reads the user settings file, the environment and the overrides.
// A missing settings file is not an error. When watching is enabled the
// watcher runs until Close or until ctx is done.
func (c *Config) Load(ctx context.Context) error {
	c.mu.Lock()

	path := c.resolveSettingsPath()
	if err := c.loadUserSettings(path); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.loadEnvironment(); err != nil {
		c.mu.Unlock()
		return err
	}
	if len(c.overrides) > 0 {
		c.layers.Put(layer.New(layerArgs, layer.SourceArgs, c.overrides))
	}

	var err error
	if c.enableWatcher && c.watcher == nil {
		err = c.startWatcher(ctx, path)
	}
	c.mu.Unlock()
	return err
}

// Close stops the watcher and, when the notifier is private, the notifier.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
	if c.ownsNtf {
		c.notifier.Close()
	}
}

// SettingsPath returns the settings file in use. The file may not exist.
func (c *Config) SettingsPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settingsPath
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	return layer.GetByPath(c.layers.Merge(), path)
}

// Source returns the name of the layer supplying path.
func (c *Config) Source(path string) string {
	_, name, _ := c.layers.Lookup(path)
	return name
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path. Floats with an
// integral value are accepted.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration and plain integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// Set sets a value at the given path in the session layer and notifies
// subscribers when the effective value changes.
func (c *Config) Set(path string, value any) error {
	if !validPath(path) {
		return ErrInvalidPath
	}
	old, _ := c.Get(path)
	c.layers.Set(layerSession, layer.SourceSession, path, value)
	if reflect.DeepEqual(old, value) {
		return nil
	}
	c.notifier.NotifySet(Topic(path), old, value, layerSession)
	return nil
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribeTopic(TopicPrefix, observer)
}

// SubscribePath registers an observer for changes to path and the settings
// below it.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribeTopic(Topic(path), observer)
}

// Topic returns the notifier topic for a setting path.
func Topic(path string) string {
	return TopicPrefix + "." + path
}

// Setting is one effective leaf setting.
type Setting struct {
	Path   string
	Value  any
	Source string
}

// Settings returns the effective leaf settings sorted by path, each with
// the name of the layer supplying it.
func (c *Config) Settings() []Setting {
	flat := layer.FlattenMap(c.layers.Merge())
	out := make([]Setting, 0, len(flat))
	for path, v := range flat {
		out = append(out, Setting{Path: path, Value: v, Source: c.Source(path)})
	}
	slices.SortFunc(out, func(a, b Setting) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// Watching reports whether the settings file is watched for changes.
func (c *Config) Watching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil && c.watcher.IsWatching(c.settingsPath)
}

// Reload rereads the settings file and publishes the settings it changed.
func (c *Config) Reload() error {
	c.mu.Lock()
	before := c.layers.Merge()
	err := c.loadUserSettings(c.settingsPath)
	after := c.layers.Merge()
	path := c.settingsPath
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.publishDiff(before, after, path)
	return nil
}

func (c *Config) resolveSettingsPath() string {
	if c.settingsPath != "" {
		return c.settingsPath
	}
	for _, name := range settingsFiles {
		p := filepath.Join(c.userConfigDir, name)
		if _, err := c.fs.Stat(p); err == nil {
			c.settingsPath = p
			return p
		}
	}
	c.settingsPath = filepath.Join(c.userConfigDir, settingsFiles[0])
	return c.settingsPath
}

// loadUserSettings replaces the user layer with the contents of path. A
// missing file removes the layer.
func (c *Config) loadUserSettings(path string) error {
	l, err := loader.ForFile(c.fs, path)
	if err != nil {
		return err
	}
	data, err := l.Load()
	if err != nil {
		return err
	}
	if data == nil {
		c.layers.Remove(layerUser)
		return nil
	}
	ul := layer.New(layerUser, layer.SourceUser, data)
	ul.Path = path
	c.layers.Put(ul)
	c.log.Debug("loaded settings from %s", path)
	return nil
}

func (c *Config) loadEnvironment() error {
	var envLoader *loader.EnvLoader
	if c.environ != nil {
		envLoader = loader.NewEnvLoaderFrom(loader.DefaultEnvPrefix, c.environ)
	} else {
		envLoader = loader.NewEnvLoader(loader.DefaultEnvPrefix)
	}
	data, err := envLoader.Load()
	if err != nil {
		return err
	}
	if len(data) > 0 {
		c.layers.Put(layer.New(layerEnv, layer.SourceEnv, data))
	}
	return nil
}

// startWatcher must be called with c.mu held.
func (c *Config) startWatcher(ctx context.Context, path string) error {
	w, err := watcher.New(watcher.WithLogger(c.log))
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		c.log.Warn("not watching %s: %v", path, err)
		return nil
	}
	w.OnChange(c.handleFileChange)
	c.watcher = w
	c.stopWatch = context.AfterFunc(ctx, func() { _ = w.Close() })
	return nil
}

// handleFileChange reloads the settings file after the watcher reports a
// change. A file that fails to parse leaves the previous settings active.
func (c *Config) handleFileChange(event watcher.Event) {
	c.mu.Lock()
	before := c.layers.Merge()
	var err error
	if event.Op == watcher.OpRemove || event.Op == watcher.OpRename {
		c.layers.Remove(layerUser)
	} else {
		err = c.loadUserSettings(event.Path)
	}
	after := c.layers.Merge()
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("keeping previous settings: %v", err)
		return
	}
	c.publishDiff(before, after, event.Path)
}

func (c *Config) publishDiff(before, after map[string]any, source string) {
	changed := layer.DiffMaps(before, after)
	if len(changed) == 0 {
		return
	}
	for _, path := range changed {
		oldValue, _ := layer.GetByPath(before, path)
		newValue, _ := layer.GetByPath(after, path)
		c.notifier.NotifySet(Topic(path), oldValue, newValue, source)
	}
	c.notifier.NotifyReload(TopicPrefix, source)
	c.log.Info("reloaded %s: %d settings changed", source, len(changed))
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "alnstorm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "alnstorm")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"gapChar":           "-",
			"historyMaxEntries": 1000,
		},
		"mouse": map[string]any{
			"autoscrollInterval":  "50ms",
			"doubleClickTime":     "400ms",
			"doubleClickDistance": 1,
			"scrollLines":         3,
		},
		"view": map[string]any{
			"charWidth":       1,
			"charHeight":      1,
			"wrap":            false,
			"wrapWidth":       0,
			"scaleRows":       0,
			"showAnnotations": false,
			"labelWidth":      10,
		},
		"logging": map[string]any{
			"level": "info",
		},
	}
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
