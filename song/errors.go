package song

import "errors"

var (
	ErrInsufficientContent = errors.New("insufficient content")
	ErrEmptySectioning     = errors.New("empty sectioning")
)

// IsRejection reports whether err means the score converted cleanly but is
// not usable as a practice piece.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInsufficientContent) || errors.Is(err, ErrEmptySectioning)
}
