package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testUser struct {
	SessionID string
	UserID    string
}

func newSession(t *testing.T, ts *httptest.Server) testUser {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/sessions", "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return testUser{SessionID: body["session_id"].(string), UserID: body["user_id"].(string)}
}

func createLobby(t *testing.T, ts *httptest.Server, user testUser, username string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies", user.SessionID, map[string]string{"username": username})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["code"].(string)
}

func joinLobby(t *testing.T, ts *httptest.Server, user testUser, code, username string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies/"+code+"/join", user.SessionID, map[string]string{"username": username})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func markReady(t *testing.T, ts *httptest.Server, user testUser, code string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/lobbies/"+code+"/ready", user.SessionID, map[string]bool{"ready": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, sessionID string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
