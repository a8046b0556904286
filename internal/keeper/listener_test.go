package keeper

import "testing"

func TestListenerRespond(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"Keeper, is the realm awake?", true},
		{"what does the KEEPER want?", true},
		{"gatekeeper?", true},
		{"keeper is great", false},
		{"is the realm awake?", false},
		{"", false},
		{"!server status", false},
	}

	l := NewListener("keeper", fixedSource(1), nil)
	for _, tt := range tests {
		reply, ok := l.Respond(tt.content)
		if ok != tt.want {
			t.Errorf("Respond(%q) ok = %v, want %v", tt.content, ok, tt.want)
		}
		if ok && reply != playfulReplies[1] {
			t.Errorf("Respond(%q) = %q, want %q", tt.content, reply, playfulReplies[1])
		}
	}
}

func TestListenerCustomTrigger(t *testing.T) {
	l := NewListener("Warden", fixedSource(0), nil)
	if _, ok := l.Respond("warden, are you there?"); !ok {
		t.Error("expected custom trigger to match case-insensitively")
	}
	if _, ok := l.Respond("keeper, are you there?"); ok {
		t.Error("default trigger should not match when overridden")
	}
}
