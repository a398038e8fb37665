package config

import (
	"errors"
	"maps"
	"time"

	"github.com/dshills/alnstorm/internal/engine/alignment"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// EditorConfig holds gap editing settings.
type EditorConfig struct {
	// GapChar is inserted by gap edits. One of '-', '.' or ' '.
	GapChar byte

	// HistoryMaxEntries bounds the undo stack. Zero selects the history
	// package default.
	HistoryMaxEntries int
}

// MouseConfig holds pointer gesture settings.
type MouseConfig struct {
	// AutoscrollInterval is the period of the autoscroll ticker while a
	// drag is held past the viewport edge.
	AutoscrollInterval time.Duration

	// DoubleClickTime is the maximum interval between the clicks of a
	// double click.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum pointer movement in cells.
	DoubleClickDistance int

	// ScrollLines is the number of rows one wheel step scrolls.
	ScrollLines int
}

// ViewConfig holds viewport geometry settings.
type ViewConfig struct {
	CharWidth  int
	CharHeight int

	// Wrap lays the alignment out in bands of WrapWidth columns.
	// A WrapWidth of zero fills the window.
	Wrap      bool
	WrapWidth int

	// ScaleRows is the number of scale rows above each wrapped band.
	ScaleRows int

	ShowAnnotations bool

	// LabelWidth is the width of the sequence name column.
	LabelWidth int
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string
}

// Editor returns the gap editing settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		GapChar:           c.gapCharOr("editor.gapChar", alignment.DefaultGap),
		HistoryMaxEntries: c.nonNegativeIntOr("editor.historyMaxEntries", 1000),
	}
}

// Mouse returns the pointer gesture settings.
func (c *Config) Mouse() MouseConfig {
	return MouseConfig{
		AutoscrollInterval:  c.positiveDurationOr("mouse.autoscrollInterval", 50*time.Millisecond),
		DoubleClickTime:     c.positiveDurationOr("mouse.doubleClickTime", 400*time.Millisecond),
		DoubleClickDistance: c.nonNegativeIntOr("mouse.doubleClickDistance", 1),
		ScrollLines:         c.positiveIntOr("mouse.scrollLines", 3),
	}
}

// View returns the viewport geometry settings.
func (c *Config) View() ViewConfig {
	return ViewConfig{
		CharWidth:       c.positiveIntOr("view.charWidth", 1),
		CharHeight:      c.positiveIntOr("view.charHeight", 1),
		Wrap:            c.getBoolOr("view.wrap", false),
		WrapWidth:       c.nonNegativeIntOr("view.wrapWidth", 0),
		ScaleRows:       c.nonNegativeIntOr("view.scaleRows", 0),
		ShowAnnotations: c.getBoolOr("view.showAnnotations", false),
		LabelWidth:      c.nonNegativeIntOr("view.labelWidth", 10),
	}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
	}
}

// These methods only return the default silently for ErrSettingNotFound.
// Type and range errors also return the default and are recorded so that
// a misconfiguration can be reported without breaking callers.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) nonNegativeIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err == nil && v < 0 {
		err = &ValueError{Path: path, Value: v, Message: "must not be negative"}
	}
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) positiveIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err == nil && v <= 0 {
		err = &ValueError{Path: path, Value: v, Message: "must be positive"}
	}
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) positiveDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err == nil && v <= 0 {
		err = &ValueError{Path: path, Value: v, Message: "must be positive"}
	}
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) gapCharOr(path string, defaultValue byte) byte {
	v, err := c.GetString(path)
	if err == nil && (len(v) != 1 || !alignment.IsGap(v[0])) {
		err = &ValueError{Path: path, Value: v, Message: `must be one of "-", "." or " "`}
	}
	if err != nil {
		c.recordConfigError(path, err)
		return defaultValue
	}
	return v[0]
}

// recordConfigError stores the first error seen for path.
func (c *Config) recordConfigError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns the configuration errors met by section accessors.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	return maps.Clone(c.configErrors)
}

// ClearConfigErrors clears any stored configuration errors.
func (c *Config) ClearConfigErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}
