package main

import (
	"testing"

	"github.com/regdir/gradval/cmd/gradval/app"
)

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := app.NewRootCommand("1.0.0", "abc123", "2026-07-31")

	want := []string{"validate", "fixtures", "fetch", "config", "version", "completion"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected root command to register %q", name)
		}
	}
}
