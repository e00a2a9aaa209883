package game

import (
	"sync"
	"time"
)

// TimerUpdate announces a phase with its full length and start time.
type TimerUpdate struct {
	Phase  Phase
	Length time.Duration
	Start  time.Time
}

type (
	TimerUpdateFunc  func(code string, update TimerUpdate)
	IDsAndNamesFunc  func(code string, pois []POIRef)
	StatusBarFunc    func(code string, bars map[string]int)
	WinnersFunc      func(code string, winners Winners)
	MessageQueueFunc func(code string, message string)
)

// Notifications holds one handler per event kind. Registering a handler
// replaces the previous one; nil restores the no-op.
type Notifications struct {
	mu          sync.RWMutex
	timerUpdate TimerUpdateFunc
	idsAndNames IDsAndNamesFunc
	statusBars  StatusBarFunc
	winners     WinnersFunc
	messageSend MessageQueueFunc
}

func NewNotifications() *Notifications {
	n := &Notifications{}
	n.SetTimerUpdateCallback(nil)
	n.SetIDsAndNamesCallback(nil)
	n.SetStatusBarUpdate(nil)
	n.SetWinnersUpdate(nil)
	n.SetMessageQueueSend(nil)
	return n
}

func (n *Notifications) SetTimerUpdateCallback(fn TimerUpdateFunc) {
	if fn == nil {
		fn = func(string, TimerUpdate) {}
	}
	n.mu.Lock()
	n.timerUpdate = fn
	n.mu.Unlock()
}

func (n *Notifications) SetIDsAndNamesCallback(fn IDsAndNamesFunc) {
	if fn == nil {
		fn = func(string, []POIRef) {}
	}
	n.mu.Lock()
	n.idsAndNames = fn
	n.mu.Unlock()
}

func (n *Notifications) SetStatusBarUpdate(fn StatusBarFunc) {
	if fn == nil {
		fn = func(string, map[string]int) {}
	}
	n.mu.Lock()
	n.statusBars = fn
	n.mu.Unlock()
}

func (n *Notifications) SetWinnersUpdate(fn WinnersFunc) {
	if fn == nil {
		fn = func(string, Winners) {}
	}
	n.mu.Lock()
	n.winners = fn
	n.mu.Unlock()
}

func (n *Notifications) SetMessageQueueSend(fn MessageQueueFunc) {
	if fn == nil {
		fn = func(string, string) {}
	}
	n.mu.Lock()
	n.messageSend = fn
	n.mu.Unlock()
}

func (n *Notifications) updateTimer(code string, update TimerUpdate) {
	n.mu.RLock()
	fn := n.timerUpdate
	n.mu.RUnlock()
	fn(code, update)
}

func (n *Notifications) sendIDsAndNames(code string, pois []POIRef) {
	n.mu.RLock()
	fn := n.idsAndNames
	n.mu.RUnlock()
	fn(code, pois)
}

func (n *Notifications) updateStatusBars(code string, bars map[string]int) {
	n.mu.RLock()
	fn := n.statusBars
	n.mu.RUnlock()
	fn(code, bars)
}

func (n *Notifications) announceWinners(code string, winners Winners) {
	n.mu.RLock()
	fn := n.winners
	n.mu.RUnlock()
	fn(code, winners)
}

func (n *Notifications) sendMessage(code string, message string) {
	n.mu.RLock()
	fn := n.messageSend
	n.mu.RUnlock()
	fn(code, message)
}
