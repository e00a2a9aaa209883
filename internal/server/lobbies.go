package server

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	errLobbyNotFound = errors.New("lobby not found")
	errNameTaken     = errors.New("username already taken in this lobby")
	errLobbyFull     = errors.New("lobby is full")
	errGameRunning   = errors.New("a game is already running in this lobby")
	errNotMember     = errors.New("you are not in this lobby")
)

// lobbyStore keeps lobbies and their members in memory. Every read hands
// out copies so callers never hold pointers into a lobby.
type lobbyStore struct {
	mu         sync.RWMutex
	lobbies    map[string]*Lobby
	maxPlayers int
}

func newLobbyStore(maxPlayers int) *lobbyStore {
	return &lobbyStore{
		lobbies:    make(map[string]*Lobby),
		maxPlayers: maxPlayers,
	}
}

func (s *lobbyStore) Create(hostID, username string) *Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := newLobbyCode()
	for {
		if _, exists := s.lobbies[code]; !exists {
			break
		}
		code = newLobbyCode()
	}
	s.removeMemberLocked(hostID)
	lobby := &Lobby{
		Code:      code,
		HostID:    hostID,
		Members:   []*Member{{UserID: hostID, Username: username, IsHost: true}},
		CreatedAt: time.Now().UTC(),
	}
	s.lobbies[code] = lobby
	return cloneLobby(lobby)
}

func (s *lobbyStore) Get(code string) (*Lobby, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[code]
	if !ok {
		return nil, false
	}
	return cloneLobby(lobby), true
}

// Join adds the user to the lobby. Joining a lobby the user is already in
// only updates the username.
func (s *lobbyStore) Join(code, userID, username string) (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[code]
	if !ok {
		return nil, errLobbyNotFound
	}
	key := usernameKey(username)
	var self *Member
	for _, member := range lobby.Members {
		if member.UserID == userID {
			self = member
			continue
		}
		if usernameKey(member.Username) == key {
			return nil, errNameTaken
		}
	}
	if self != nil {
		self.Username = username
		return cloneLobby(lobby), nil
	}
	if lobby.Running {
		return nil, errGameRunning
	}
	if s.maxPlayers > 0 && len(lobby.Members) >= s.maxPlayers {
		return nil, errLobbyFull
	}
	s.removeMemberLocked(userID)
	lobby.Members = append(lobby.Members, &Member{UserID: userID, Username: username})
	return cloneLobby(lobby), nil
}

// Leave removes the user. It is ignored while a game is running so the
// roster stays stable for the engine. An emptied lobby is dropped.
func (s *lobbyStore) Leave(code, userID string) (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[code]
	if !ok {
		return nil, errLobbyNotFound
	}
	if lobby.Running {
		return cloneLobby(lobby), errGameRunning
	}
	if !removeMember(lobby, userID) {
		return nil, errNotMember
	}
	if len(lobby.Members) == 0 {
		delete(s.lobbies, code)
		return cloneLobby(lobby), nil
	}
	return cloneLobby(lobby), nil
}

func (s *lobbyStore) SetReady(code, userID string, ready bool) (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[code]
	if !ok {
		return nil, errLobbyNotFound
	}
	for _, member := range lobby.Members {
		if member.UserID == userID {
			member.Ready = ready
			return cloneLobby(lobby), nil
		}
	}
	return nil, errNotMember
}

// ClaimStart marks the lobby as running when every member is ready and the
// lobby has at least minPlayers. It returns the roster to start with.
func (s *lobbyStore) ClaimStart(code string, minPlayers int) ([]Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[code]
	if !ok || lobby.Running || len(lobby.Members) < minPlayers {
		return nil, false
	}
	for _, member := range lobby.Members {
		if !member.Ready {
			return nil, false
		}
	}
	lobby.Running = true
	members := make([]Member, 0, len(lobby.Members))
	for _, member := range lobby.Members {
		members = append(members, *member)
	}
	return members, true
}

// Finish clears the running flag, resets readiness and remembers the result.
func (s *lobbyStore) Finish(code string, result *gameResult) (*Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[code]
	if !ok {
		return nil, false
	}
	lobby.Running = false
	for _, member := range lobby.Members {
		member.Ready = false
	}
	if result != nil {
		lobby.LastResult = result
	}
	return cloneLobby(lobby), true
}

func (s *lobbyStore) FindMember(userID string) (string, Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for code, lobby := range s.lobbies {
		for _, member := range lobby.Members {
			if member.UserID == userID {
				return code, *member, true
			}
		}
	}
	return "", Member{}, false
}

func (s *lobbyStore) Summaries() []LobbySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]LobbySummary, 0, len(s.lobbies))
	for _, lobby := range s.lobbies {
		list = append(list, summarize(lobby))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Code < list[j].Code
	})
	return list
}

func (s *lobbyStore) removeMemberLocked(userID string) {
	for code, lobby := range s.lobbies {
		if lobby.Running {
			continue
		}
		if removeMember(lobby, userID) && len(lobby.Members) == 0 {
			delete(s.lobbies, code)
		}
	}
}

func removeMember(lobby *Lobby, userID string) bool {
	for i, member := range lobby.Members {
		if member.UserID != userID {
			continue
		}
		lobby.Members = append(lobby.Members[:i], lobby.Members[i+1:]...)
		if lobby.HostID == userID && len(lobby.Members) > 0 {
			lobby.HostID = lobby.Members[0].UserID
			lobby.Members[0].IsHost = true
		}
		return true
	}
	return false
}

func cloneLobby(lobby *Lobby) *Lobby {
	out := *lobby
	out.Members = make([]*Member, 0, len(lobby.Members))
	for _, member := range lobby.Members {
		copied := *member
		out.Members = append(out.Members, &copied)
	}
	return &out
}

func summarize(lobby *Lobby) LobbySummary {
	summary := LobbySummary{
		Code:    lobby.Code,
		HostID:  lobby.HostID,
		Members: make([]Member, 0, len(lobby.Members)),
		Total:   len(lobby.Members),
		Running: lobby.Running,
	}
	for _, member := range lobby.Members {
		summary.Members = append(summary.Members, *member)
		if member.Ready {
			summary.Ready++
		}
	}
	return summary
}
