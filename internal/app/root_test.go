package app

import "testing"

func TestRootCommandRegistration(t *testing.T) {
	want := []string{
		"generate", "list", "info", "status", "prefer", "env", "alias",
		"block", "unblock", "blocklist", "hook", "remove", "passthrough",
		"export", "import", "watch", "doctor",
	}

	registered := map[string]bool{}
	for _, cmd := range RootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootCommandSilencesUsage(t *testing.T) {
	// Errors carry exit codes; cobra must not print usage on top of them.
	if !RootCmd.SilenceUsage || !RootCmd.SilenceErrors {
		t.Error("RootCmd must silence cobra's own usage/error output")
	}
}
