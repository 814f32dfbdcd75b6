package command_test

import (
	"reflect"
	"testing"

	"github.com/vaultsh/vaultsh/internal/shell/command"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := command.NewRegistry()
	cmd := &command.Command{Order: 10, Description: "test command"}

	r.Register("Hello", cmd)

	got, ok := r.Get("hello")
	if !ok {
		t.Fatal("expected command to be registered")
	}
	if got != cmd {
		t.Error("expected the same command object")
	}

	// Lookup is case-insensitive both ways.
	if _, ok := r.Get("HELLO"); !ok {
		t.Error("expected case-insensitive lookup")
	}
}

func TestRegistryReplaceOnDuplicate(t *testing.T) {
	r := command.NewRegistry()
	first := &command.Command{Description: "first"}
	second := &command.Command{Description: "second"}

	r.Register("cmd", first)
	r.Register("cmd", second)

	got, _ := r.Get("cmd")
	if got != second {
		t.Error("expected duplicate registration to replace")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 command, got %d", r.Len())
	}
}

func TestRegistryAlias(t *testing.T) {
	r := command.NewRegistry()
	r.Register("remove", &command.Command{})
	r.Alias("RM", "Remove")

	target, ok := r.AliasTarget("rm")
	if !ok {
		t.Fatal("expected alias to resolve")
	}
	if target != "remove" {
		t.Errorf("expected target %q, got %q", "remove", target)
	}
}

func TestRegistryAliasFor(t *testing.T) {
	r := command.NewRegistry()
	r.Register("remove", &command.Command{})
	r.Alias("rm", "remove")
	r.Alias("del", "remove")
	r.Alias("x", "other")

	// Lexically smallest alias wins for display.
	if got := r.AliasFor("remove"); got != "del" {
		t.Errorf("AliasFor = %q, want %q", got, "del")
	}
	if got := r.AliasFor("missing"); got != "" {
		t.Errorf("AliasFor missing = %q, want empty", got)
	}
}

func TestRegistryNames(t *testing.T) {
	r := command.NewRegistry()
	r.Register("b", &command.Command{})
	r.Register("a", &command.Command{})
	r.Register("c", &command.Command{})

	want := []string{"a", "b", "c"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestRegistryValidate(t *testing.T) {
	r := command.NewRegistry()
	r.Register("quit", &command.Command{})
	r.Alias("q", "quit")

	if err := r.Validate(); err != nil {
		t.Errorf("unexpected validate error: %v", err)
	}

	r.Alias("bad", "nowhere")
	if err := r.Validate(); err == nil {
		t.Error("expected dangling alias to fail validation")
	}
}
