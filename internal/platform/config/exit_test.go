package config

import (
	"bytes"
	"testing"
)

func TestExitfWritesMessageAndExitsWithOne(t *testing.T) {
	var out bytes.Buffer
	code := -1
	prevWriter, prevExit := exitWriter, exit
	exitWriter = &out
	exit = func(c int) { code = c }
	t.Cleanup(func() { exitWriter, exit = prevWriter, prevExit })

	Exitf("Error: %s", "FACTION_UNKNOWN: Faction zulu does not exist.")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := out.String(); got != "Error: FACTION_UNKNOWN: Faction zulu does not exist.\n" {
		t.Fatalf("output = %q", got)
	}
}
