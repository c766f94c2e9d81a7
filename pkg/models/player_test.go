package models

import "testing"

func TestPlayerActivation(t *testing.T) {
	tests := []struct {
		name      string
		activated int64
		active    bool
		banned    bool
	}{
		{"activated", 1700000000, true, false},
		{"not activated", 0, false, false},
		{"banned", -1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{Activated: tt.activated}
			if p.IsActive() != tt.active || p.IsBanned() != tt.banned {
				t.Fatalf("activated=%d: got active=%v banned=%v", tt.activated, p.IsActive(), p.IsBanned())
			}
		})
	}
}

func TestPlayerTouch(t *testing.T) {
	p := &Player{}
	p.Touch()
	if p.LastSeen.IsZero() {
		t.Fatalf("expected LastSeen to be set")
	}
}
