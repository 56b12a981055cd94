package psconnector

import "testing"

func TestParseHostListValid(t *testing.T) {
	hosts, errs := ParseHostList("ps1:3000, ps2:3000 ,ps3:3000", true)
	if len(errs) != 0 { t.Fatalf("unexpected errors: %v", errs) }

	want := []string{ "ps1:3000", "ps2:3000", "ps3:3000" }
	if len(hosts) != len(want) {
		t.Fatalf("got %d hosts, want %d", len(hosts), len(want))
	}

	for i, host := range hosts {
		if host != want[i] { t.Errorf("host[%d] = %q, want %q", i, host, want[i]) }
	}
}

func TestParseHostListRejectsEmptyWhenRemoteStorageEnabled(t *testing.T) {
	if _, errs := ParseHostList("", true); len(errs) == 0 {
		t.Errorf("expected error for empty host list with remote storage enabled")
	}

	if _, errs := ParseHostList("   ", true); len(errs) == 0 {
		t.Errorf("expected error for whitespace-only host list with remote storage enabled")
	}
}

func TestParseHostListAllowsEmptyWhenRemoteStorageDisabled(t *testing.T) {
	hosts, errs := ParseHostList("", false)
	if len(errs) != 0 { t.Errorf("expected no error for empty host list with remote storage disabled, got %v", errs) }
	if len(hosts) != 0 { t.Errorf("expected no hosts, got %v", hosts) }
}

func TestParseHostListAccumulatesErrorsAndKeepsValidEntries(t *testing.T) {
	hosts, errs := ParseHostList("ps1:3000,h1:99999,h2:bad,ps2:3000", true)

	if len(errs) != 2 {
		t.Fatalf("expected 2 accumulated errors, got %d: %v", len(errs), errs)
	}

	want := []string{ "ps1:3000", "ps2:3000" }
	if len(hosts) != len(want) {
		t.Fatalf("got %d valid hosts, want %d: %v", len(hosts), len(want), hosts)
	}

	for i, host := range hosts {
		if host != want[i] { t.Errorf("host[%d] = %q, want %q", i, host, want[i]) }
	}
}

func TestParseHostListRejectsMalformedEntry(t *testing.T) {
	_, errs := ParseHostList("ps1:3000,not-a-hostport", true)
	if len(errs) == 0 { t.Errorf("expected error for malformed host:port entry") }
}

func TestQuorum(t *testing.T) {
	cases := map[int]int{ 1: 1, 2: 2, 3: 2, 4: 3, 5: 3 }

	for n, want := range cases {
		if got := Quorum(n); got != want {
			t.Errorf("Quorum(%d) = %d, want %d", n, got, want)
		}
	}
}
