package diagnostic

// Annotation is a diagnostic anchored at a file position.
//
// StartColumn and EndColumn are only set when the annotation covers a
// single line; column ranges spanning several lines are rejected by the
// Checks API.
type Annotation struct {
	Path        string          `json:"path"`
	StartLine   int             `json:"start_line"`
	EndLine     int             `json:"end_line"`
	StartColumn *int            `json:"start_column,omitempty"`
	EndColumn   *int            `json:"end_column,omitempty"`
	Level       AnnotationLevel `json:"annotation_level"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`

	// Code is the lint or error code. It is not part of the Checks API
	// payload and only feeds local reports.
	Code string `json:"-"`
}

// NewAnnotation builds an annotation from the record's primary span.
func NewAnnotation(rec Record) (Annotation, error) {
	span, err := rec.PrimarySpan()
	if err != nil {
		return Annotation{}, err
	}

	a := Annotation{
		Path:      span.FileName,
		StartLine: span.LineStart,
		EndLine:   span.LineEnd,
		Level:     rec.Level().AnnotationLevel(),
		Title:     rec.Message.Message,
		Message:   rec.Message.Rendered,
	}
	if rec.Message.Code != nil {
		a.Code = rec.Message.Code.Code
	}
	if span.LineStart == span.LineEnd {
		start, end := span.ColumnStart, span.ColumnEnd
		a.StartColumn = &start
		a.EndColumn = &end
	}
	return a, nil
}

// HasColumns reports whether the annotation carries a column range.
func (a Annotation) HasColumns() bool {
	return a.StartColumn != nil && a.EndColumn != nil
}
