package sim

// Start moves the state from Idle to Busy with activity a. The character
// walks to the activity's room and the whole effect lands at once; the
// duration only keeps the character occupied.
func Start(s *State, a Activity) error {
	if s.Busy() {
		return ErrBusy
	}
	if !a.Available(*s) {
		return ErrIneligible
	}
	s.Room = a.Room
	ApplyEffect(&s.Needs, a.Effect)
	s.Active = &ActiveAction{
		ActivityID:       a.ID,
		MinutesRemaining: float64(a.Duration),
	}
	return nil
}

// Countdown spends elapsed in-game minutes on the active action. When the
// action runs out it is cleared and its id is returned with done set.
func Countdown(s *State, elapsed float64) (completed string, done bool) {
	if s.Active == nil || elapsed <= 0 {
		return "", false
	}
	s.Active.MinutesRemaining -= elapsed
	if s.Active.MinutesRemaining > 0 {
		return "", false
	}
	completed = s.Active.ActivityID
	s.Active.MinutesRemaining = 0
	s.Active = nil
	return completed, true
}
