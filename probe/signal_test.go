package probe

import "testing"

func TestSignal_Has(t *testing.T) {
	s := FlagReachable | FlagTransient

	if !s.Has(FlagReachable) {
		t.Error("Has(FlagReachable) = false, want true")
	}
	if !s.Has(FlagReachable | FlagTransient) {
		t.Error("Has(combined mask) = false, want true")
	}
	if s.Has(FlagConnectionRequired) {
		t.Error("Has(FlagConnectionRequired) = true, want false")
	}
	if s.Has(FlagReachable | FlagConnectionRequired) {
		t.Error("Has(partial mask) = true, want false")
	}
}

func TestSignal_Reachable(t *testing.T) {
	if (Signal(0)).Reachable() {
		t.Error("zero signal Reachable() = true, want false")
	}
	if !FlagReachable.Reachable() {
		t.Error("FlagReachable.Reachable() = false, want true")
	}
	if FlagTransient.Reachable() {
		t.Error("FlagTransient.Reachable() = true, want false")
	}
}

func TestSignal_String(t *testing.T) {
	tests := []struct {
		sig  Signal
		want string
	}{
		{0, "none"},
		{FlagReachable, "reachable"},
		{FlagTransient, "transient"},
		{FlagReachable | FlagConnectionRequired, "reachable|connection-required"},
		{
			FlagReachable | FlagConnectionRequired | FlagTransient | FlagInterventionRequired,
			"reachable|connection-required|transient|intervention-required",
		},
	}

	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Errorf("Signal(%d).String() = %q, want %q", tt.sig, got, tt.want)
		}
	}
}
