package confver_test

import (
	"testing"

	confver "github.com/confver/confver"
)

func TestMigrate_WalksChainInRegistrationOrder(t *testing.T) {
	steps := []confver.Migration{
		{From: "1.0.0", To: "1.0.1", Apply: func(f map[string]any) map[string]any {
			f["var3"] = ""
			return f
		}},
		{From: "1.0.1", To: "1.0.2", Apply: func(f map[string]any) map[string]any {
			delete(f, "var1")
			f["var4"] = float64(0)
			return f
		}},
	}

	in := map[string]any{"var1": 0.0, "var2": 555}
	out, err := confver.Migrate("TestType", "1.0.0", "1.0.2", steps, in)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, ok := out["var1"]; ok {
		t.Fatalf("var1 should be removed, got %v", out)
	}
	if out["var2"] != 555 {
		t.Fatalf("var2 = %v, want 555", out["var2"])
	}
	if out["var3"] != "" {
		t.Fatalf("var3 = %v, want empty string", out["var3"])
	}
	if out["var4"] != float64(0) {
		t.Fatalf("var4 = %v, want 0", out["var4"])
	}
}

func TestMigrate_NoopWhenDeclaredEqualsCurrent(t *testing.T) {
	calls := 0
	steps := []confver.Migration{
		{From: "1.0.0", To: "1.0.1", Apply: func(f map[string]any) map[string]any {
			calls++
			return f
		}},
	}
	in := map[string]any{"a": 1}
	out, err := confver.Migrate("TestType", "1.0.1", "1.0.1", steps, in)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected zero transform calls, got %d", calls)
	}
	if out["a"] != 1 {
		t.Fatalf("mapping changed: %v", out)
	}
}

func TestMigrate_MissingPath(t *testing.T) {
	steps := []confver.Migration{
		{From: "1.0.0", To: "1.0.1", Apply: func(f map[string]any) map[string]any { return f }},
	}
	_, err := confver.Migrate("TestType", "0.9.0", "1.0.1", steps, map[string]any{})
	if err == nil {
		t.Fatalf("expected migration_path_missing")
	}
	iss, ok := confver.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != confver.CodeMigrationPath {
		t.Fatalf("expected %s, got %v", confver.CodeMigrationPath, err)
	}
	// Diagnostics must name the type and both versions.
	if iss[0].Params["type"] != "TestType" || iss[0].Params["declared"] != "0.9.0" || iss[0].Params["current"] != "1.0.1" {
		t.Fatalf("missing diagnostic params: %v", iss[0].Params)
	}
}

func TestMigrate_GapInChainFails(t *testing.T) {
	// Steps registered out of dependency order: the walk never searches, so
	// the second hop is unreachable.
	steps := []confver.Migration{
		{From: "1.0.1", To: "1.0.2", Apply: func(f map[string]any) map[string]any { return f }},
		{From: "1.0.0", To: "1.0.1", Apply: func(f map[string]any) map[string]any { return f }},
	}
	_, err := confver.Migrate("TestType", "1.0.0", "1.0.2", steps, map[string]any{})
	if iss, ok := confver.AsIssues(err); !ok || iss[0].Code != confver.CodeMigrationPath {
		t.Fatalf("expected %s, got %v", confver.CodeMigrationPath, err)
	}
}
