package server

import (
	"dark-orbit/internal/game"
)

type timerPayload struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
	Start  int64  `json:"start"`
}

type poiUpdate struct {
	POIs []game.POIRef `json:"pois"`
}

type readyCount struct {
	Ready int `json:"ready"`
	Total int `json:"total"`
}

type statusPayload struct {
	Bars   map[string]int    `json:"bars"`
	Labels map[string]string `json:"labels"`
}

// registerNotifications routes engine events to the lobby's websockets and
// the history tables.
func (s *Server) registerNotifications() {
	notify := s.engine.Notifications()
	notify.SetTimerUpdateCallback(func(code string, update game.TimerUpdate) {
		s.ws.Broadcast(code, msgTimerUpdate, timerPayload{
			Name:   update.Phase.String(),
			Length: update.Length.Milliseconds(),
			Start:  update.Start.UnixMilli(),
		})
		s.persistPhase(code, update)
	})
	notify.SetIDsAndNamesCallback(func(code string, pois []game.POIRef) {
		s.ws.Broadcast(code, msgPOIUpdate, poiUpdate{POIs: pois})
	})
	notify.SetStatusBarUpdate(func(code string, bars map[string]int) {
		s.ws.Broadcast(code, msgStatusUpdate, statusPayload{Bars: bars, Labels: s.barLabels()})
	})
	notify.SetWinnersUpdate(func(code string, winners game.Winners) {
		s.ws.Broadcast(code, msgWinnerData, winners)
		s.persistGameOver(code, winners)
	})
	notify.SetMessageQueueSend(func(code string, message string) {
		s.ws.Broadcast(code, msgChatReceive, chatPayload{Sender: serverSenderName, Message: message})
	})
}

func (s *Server) barLabels() map[string]string {
	labels := make(map[string]string)
	for _, def := range s.engine.Ruleset().Bars {
		labels[def.ID] = def.Label
	}
	return labels
}
