package agent

import (
	"errors"
	"reflect"
	"testing"
)

func TestContext_MergeUnion(t *testing.T) {
	c := NewContext()
	c["idea"] = "a recipe-sharing app"

	frag := NewFragment("research", map[string]any{"research": "market looks crowded"})

	merged, err := c.Merge(frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := merged.GetString("research"); got != "market looks crowded" {
		t.Errorf("merged key missing: got %q", got)
	}
	if got := merged.GetString("idea"); got != "a recipe-sharing app" {
		t.Errorf("existing key lost: got %q", got)
	}

	// The receiver must be untouched.
	if _, ok := c.Get("research"); ok {
		t.Error("Merge mutated the input context")
	}
}

func TestContext_MergeDuplicateKey(t *testing.T) {
	c := NewContext()
	c["research"] = "first"

	frag := NewFragment("features", map[string]any{"research": "second"})

	_, err := c.Merge(frag)
	if err == nil {
		t.Fatal("expected DuplicateKeyError")
	}

	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateKeyError, got %T", err)
	}
	if dup.Key != "research" || dup.Agent != "features" {
		t.Errorf("unexpected error detail: %+v", dup)
	}
}

func TestContext_CloneIsSnapshot(t *testing.T) {
	c := NewContext()
	c["idea"] = "a diet tracker"

	snapshot := c.Clone()
	c["late"] = "written after the snapshot"

	if _, ok := snapshot.Get("late"); ok {
		t.Error("snapshot observed a write made after Clone")
	}
}

func TestContext_RequireString(t *testing.T) {
	c := NewContext()
	c["idea"] = "a trading bot"

	got, err := c.RequireString("research", "idea")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a trading bot" {
		t.Errorf("got %q", got)
	}

	_, err = c.RequireString("research", "absent")
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingFieldError, got %v", err)
	}
	if missing.Agent != "research" || missing.Field != "absent" {
		t.Errorf("unexpected error detail: %+v", missing)
	}
}

func TestContext_KeysSorted(t *testing.T) {
	c := Context{"b": 1, "a": 2, "c": 3}
	want := []string{"a", "b", "c"}
	if got := c.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestParallelError_Message(t *testing.T) {
	perr := &ParallelError{
		Fragments: map[string]*Fragment{
			"features": NewFragment("features", nil),
			"reuse":    NewFragment("reuse", nil),
		},
		Failures: map[string]error{
			"techstack": errors.New("provider timeout"),
		},
	}

	if got := perr.FailedAgents(); !reflect.DeepEqual(got, []string{"techstack"}) {
		t.Errorf("FailedAgents() = %v", got)
	}

	msg := perr.Error()
	if msg != "parallel phase: 1 of 3 agents failed: techstack: provider timeout" {
		t.Errorf("unexpected message: %s", msg)
	}
}
