package main

import (
	"testing"

	"github.com/jessevdk/go-flags"
)

func TestEvalDatasetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"surgeon/needle-pass", "surgeon/eval_needle-pass"},
		{"needle-pass", "eval_needle-pass"},
	}
	for _, tt := range tests {
		if got := evalDatasetName(tt.in); got != tt.want {
			t.Errorf("evalDatasetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// parseCommand parses argv into a fresh Options without executing the
// selected command.
func parseCommand(t *testing.T, argv ...string) *Options {
	t.Helper()
	var o Options
	p := flags.NewParser(&o, flags.None)
	p.CommandHandler = func(flags.Commander, []string) error { return nil }
	if _, err := p.ParseArgs(argv); err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	return &o
}

func TestDepthWindowFlags(t *testing.T) {
	o := parseCommand(t, "record")
	if o.Record.DepthMin != 200 || o.Record.DepthMax != 500 {
		t.Errorf("record depth window = [%d, %d], want [200, 500]",
			o.Record.DepthMin, o.Record.DepthMax)
	}

	o = parseCommand(t, "record", "--depth-min", "250", "--depth-max", "400")
	if o.Record.DepthMin != 250 || o.Record.DepthMax != 400 {
		t.Errorf("record depth window = [%d, %d], want [250, 400]",
			o.Record.DepthMin, o.Record.DepthMax)
	}

	o = parseCommand(t, "inference", "--policy", "p", "--depth-min", "150")
	if o.Inference.DepthMin != 150 || o.Inference.DepthMax != 500 {
		t.Errorf("inference depth window = [%d, %d], want [150, 500]",
			o.Inference.DepthMin, o.Inference.DepthMax)
	}
}
