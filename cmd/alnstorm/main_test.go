package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseSettings(t *testing.T) {
	got, err := parseSettings([]string{"view.wrap=on", "mouse.autoscrollInterval=20ms", "editor.gapChar=."})
	if err != nil {
		t.Fatalf("parseSettings() error = %v", err)
	}
	if got["view.wrap"] != true {
		t.Errorf("view.wrap = %#v", got["view.wrap"])
	}
	if got["mouse.autoscrollInterval"] != 20*time.Millisecond {
		t.Errorf("mouse.autoscrollInterval = %#v", got["mouse.autoscrollInterval"])
	}
	if got["editor.gapChar"] != "." {
		t.Errorf("editor.gapChar = %#v", got["editor.gapChar"])
	}

	for _, bad := range []string{"wrap", "=1", ".view=1", "view.=1"} {
		if _, err := parseSettings([]string{bad}); err == nil {
			t.Errorf("parseSettings(%q) succeeded", bad)
		}
	}
}

func TestBuildOptions(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--wrap", "--set", "view.wrap=false", "--set", "view.scaleRows=1", "--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}
	var flags rootFlags
	flags.wrap = true
	flags.logLevel = "debug"
	flags.settings = []string{"view.wrap=false", "view.scaleRows=1"}

	opts, err := buildOptions(cmd, flags, []string{"seq1=AC--GT", "seq2=ACGTAC"})
	if err != nil {
		t.Fatalf("buildOptions() error = %v", err)
	}
	if len(opts.Sequences) != 2 || opts.Sequences[0] != [2]string{"seq1", "AC--GT"} {
		t.Errorf("Sequences = %v", opts.Sequences)
	}
	if opts.Overrides["view.wrap"] != true {
		t.Errorf("view.wrap = %#v, want the --wrap flag to win", opts.Overrides["view.wrap"])
	}
	if opts.Overrides["view.scaleRows"] != int64(1) {
		t.Errorf("view.scaleRows = %#v", opts.Overrides["view.scaleRows"])
	}
	if opts.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", opts.LogLevel)
	}
}

func TestBuildOptionsErrors(t *testing.T) {
	cmd := newRootCmd()
	if _, err := buildOptions(cmd, rootFlags{logLevel: "loud"}, []string{"a=AC"}); err == nil {
		t.Error("accepted an invalid log level")
	}
	if _, err := buildOptions(cmd, rootFlags{}, []string{"ACGT"}); err == nil {
		t.Error("accepted a sequence without a name")
	}
}

func TestSettingsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[editor]\ngapChar = \".\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"settings", "--config", path, "--set", "view.wrap=on"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"editor.gapChar = . (user)",
		"view.wrap = true (arguments)",
		"view.labelWidth = 10 (defaults)",
	} {
		if !strings.Contains(out.String(), want+"\n") {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}
