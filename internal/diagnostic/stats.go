package diagnostic

// Stats counts diagnostics by level for one build.
type Stats struct {
	ICE     int `json:"ice"`
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Note    int `json:"note"`
	Help    int `json:"help"`
}

// Add increments the counter for l. Unknown levels are not counted.
func (s *Stats) Add(l Level) {
	switch l {
	case LevelHelp:
		s.Help++
	case LevelNote:
		s.Note++
	case LevelWarning:
		s.Warning++
	case LevelError:
		s.Error++
	case LevelICE:
		s.ICE++
	}
}

// Total returns the sum of all counters.
func (s Stats) Total() int {
	return s.ICE + s.Error + s.Warning + s.Note + s.Help
}

// IsClean reports whether no diagnostic was counted.
func (s Stats) IsClean() bool {
	return s.Total() == 0
}

// Failed reports whether any error or internal compiler error was counted.
// Warnings, notes and help messages never fail a build.
func (s Stats) Failed() bool {
	return s.ICE > 0 || s.Error > 0
}
