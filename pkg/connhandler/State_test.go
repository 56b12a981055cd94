package connhandler

import "testing"

func TestCanTransitionFollowsTheLifecycle(t *testing.T) {
	cases := []struct {
		from, to State
		want bool
	}{
		{ Idle, Connecting, true },
		{ Connecting, Connected, true },
		{ Connecting, Idle, true },
		{ Connecting, Disconnecting, true },
		{ Connected, Disconnecting, true },
		{ Disconnecting, Idle, true },
		{ Idle, Connected, false },
		{ Connected, Idle, false },
		{ Disconnecting, Connected, false },
	}

	for _, tc := range cases {
		got := canTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("canTransition(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
