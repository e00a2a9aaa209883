package server

import "testing"

func TestUsernameKeyFoldsAccentsAndCase(t *testing.T) {
	cases := [][2]string{
		{"Zoë", "zoe"},
		{"  ANNA  ", "anna"},
		{"José  Luis", "jose luis"},
	}
	for _, tc := range cases {
		if got := usernameKey(tc[0]); got != tc[1] {
			t.Fatalf("expected %q for %q, got %q", tc[1], tc[0], got)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	name, err := validateUsername("  Nova   Prime ")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if name != "Nova Prime" {
		t.Fatalf("expected collapsed spaces, got %q", name)
	}
	for _, bad := range []string{"", "<b>", "abcdefghijklmnopqrstu"} {
		if _, err := validateUsername(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestValidateChat(t *testing.T) {
	if _, err := validateChat("   "); err == nil {
		t.Fatalf("expected empty chat to be rejected")
	}
	long := make([]byte, maxChatLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := validateChat(string(long)); err == nil {
		t.Fatalf("expected long chat to be rejected")
	}
}

func TestLobbyCodes(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := newLobbyCode()
		if !validLobbyCode(code) {
			t.Fatalf("generated invalid code %q", code)
		}
	}
	for _, bad := range []string{"", "ABCDE", "ABCDE1", "abcdef", "ABCDEFG"} {
		if validLobbyCode(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
