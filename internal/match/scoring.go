package match

// FinalizeGame applies a finished game's result to the session: scores,
// seat classes (spec §4.4 Scoring).
func FinalizeGame(s *SessionState, m *MatchState) [NumSeats]int {
	order := m.Finalize()
	s.ApplyGameResult(order)
	return order
}
