package domain

import "errors"

var (
	// ErrTeamNotFound is returned when a team id does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrQuestionNotFound is returned when a question id does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrScoreNotFound is returned when a score id does not exist.
	ErrScoreNotFound = errors.New("score not found")
	// ErrCategoryNotFound is returned when a positional category id is out of range.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUnsupportedFileType rejects uploads whose extension is not txt, docx or pdf.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrMissingReference surfaces a foreign-key violation: an award referenced
	// a team or question that does not exist.
	ErrMissingReference = errors.New("referenced team or question does not exist")
)
