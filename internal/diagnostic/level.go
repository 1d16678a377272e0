package diagnostic

// Level is the severity of a compiler diagnostic.
type Level int

const (
	LevelUnknown Level = iota
	LevelHelp
	LevelNote
	LevelWarning
	LevelError
	LevelICE
)

// Level strings as emitted by rustc.
const (
	levelHelp    = "help"
	levelNote    = "note"
	levelWarning = "warning"
	levelError   = "error"
	levelICE     = "error: internal compiler error"
)

// ParseLevel maps a rustc level string to a Level. Unrecognised strings
// map to LevelUnknown.
func ParseLevel(s string) Level {
	switch s {
	case levelHelp:
		return LevelHelp
	case levelNote:
		return LevelNote
	case levelWarning:
		return LevelWarning
	case levelError:
		return LevelError
	case levelICE:
		return LevelICE
	default:
		return LevelUnknown
	}
}

func (l Level) String() string {
	switch l {
	case LevelHelp:
		return levelHelp
	case LevelNote:
		return levelNote
	case LevelWarning:
		return levelWarning
	case LevelError:
		return levelError
	case LevelICE:
		return levelICE
	default:
		return "unknown"
	}
}

// AnnotationLevel returns the annotation severity used when reporting a
// diagnostic of this level. Errors, internal compiler errors and unknown
// levels all report as failures.
func (l Level) AnnotationLevel() AnnotationLevel {
	switch l {
	case LevelHelp, LevelNote:
		return Notice
	case LevelWarning:
		return Warning
	default:
		return Failure
	}
}

// AnnotationLevel is the severity of a check-run annotation. Values are
// ordered from least to most severe.
type AnnotationLevel int

const (
	Notice AnnotationLevel = iota + 1
	Warning
	Failure
)

func (a AnnotationLevel) String() string {
	switch a {
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level using the Checks API names.
func (a AnnotationLevel) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
