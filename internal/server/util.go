package server

import "crypto/rand"

func newLobbyCode() string {
	buf := make([]byte, lobbyCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = lobbyCodeAlphabet[int(buf[i])%len(lobbyCodeAlphabet)]
	}
	return string(buf)
}
