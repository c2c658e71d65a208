package critics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/tribunal/internal/critics"
)

func TestNewPoolValidation(t *testing.T) {
	tests := []struct {
		name    string
		members []critics.Critic
		wantErr bool
	}{
		{
			"valid",
			[]critics.Critic{critics.NewLexical("rights"), critics.NewLexical("risk")},
			false,
		},
		{"empty", nil, true},
		{
			"duplicate names",
			[]critics.Critic{critics.NewLexical("rights"), critics.NewLexical("rights")},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := critics.NewPool(tt.members...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPool() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPoolMembersOrder(t *testing.T) {
	pool, err := critics.NewPool(
		critics.NewLexical("truth"),
		critics.NewLexical("rights"),
		critics.NewLexical("risk"),
	)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	if pool.Size() != 3 {
		t.Errorf("Size() = %d, want 3", pool.Size())
	}

	want := []string{"truth", "rights", "risk"}
	got := pool.Members()
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Members()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestPoolObserveHealth(t *testing.T) {
	pool, err := critics.NewPool(
		critics.NewLexical("rights"),
		critics.NewLexical("risk"),
	)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	pool.Observe("rights", critics.StatusOK, 5*time.Millisecond)
	pool.Observe("rights", critics.StatusTimedOut, 100*time.Millisecond)
	pool.Observe("risk", critics.StatusErrored, time.Millisecond)
	pool.Observe("unknown", critics.StatusOK, time.Millisecond) // ignored

	health := pool.Health()
	if len(health) != 2 {
		t.Fatalf("Health() length = %d, want 2", len(health))
	}

	rights := health[0]
	if rights.Critic != "rights" {
		t.Fatalf("health[0].Critic = %q, want rights", rights.Critic)
	}
	if rights.Evaluations != 2 || rights.Timeouts != 1 {
		t.Errorf("rights bookkeeping = %+v, want 2 evaluations, 1 timeout", rights)
	}
	if rights.Reachable() {
		t.Error("rights reachable after timed-out last status")
	}

	risk := health[1]
	if risk.Failures != 1 || risk.Reachable() {
		t.Errorf("risk bookkeeping = %+v, want 1 failure, unreachable", risk)
	}
}

func TestPoolHealthNeverEvaluated(t *testing.T) {
	pool, err := critics.NewPool(critics.NewLexical("rights"))
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	health := pool.Health()
	if !health[0].Reachable() {
		t.Error("never-evaluated member reported unreachable")
	}
	if health[0].LastLatency != "" {
		t.Errorf("LastLatency = %q, want empty", health[0].LastLatency)
	}
}

func TestConfigBuild(t *testing.T) {
	cfg := critics.Config{
		Backend: critics.BackendLexical,
		Members: []string{"rights", "risk"},
	}

	pool, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if pool.Size() != 2 {
		t.Errorf("Size() = %d, want 2", pool.Size())
	}
}

func TestConfigBuildUnknownBackend(t *testing.T) {
	cfg := critics.Config{
		Backend: "mystery",
		Members: []string{"rights"},
	}

	if _, err := cfg.Build(); !errors.Is(err, critics.ErrUnknownBackend) {
		t.Errorf("Build() error = %v, want ErrUnknownBackend", err)
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := critics.Config{}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Backend != critics.BackendLexical {
		t.Errorf("Backend = %q, want %q", cfg.Backend, critics.BackendLexical)
	}
	if len(cfg.Members) != 5 {
		t.Errorf("Members = %v, want the five core dimensions", cfg.Members)
	}
}

func TestConfigFinalizeMembersEnv(t *testing.T) {
	t.Setenv("TEST_CRITICS_MEMBERS", "rights, risk ,truth")

	cfg := critics.Config{}
	env := &critics.Env{Members: "TEST_CRITICS_MEMBERS"}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	want := []string{"rights", "risk", "truth"}
	if len(cfg.Members) != len(want) {
		t.Fatalf("Members = %v, want %v", cfg.Members, want)
	}
	for i, name := range want {
		if cfg.Members[i] != name {
			t.Errorf("Members[%d] = %q, want %q", i, cfg.Members[i], name)
		}
	}
}
