package predictor

import (
	"strings"

	"reel-predictor/internal/models"
)

// Validate returns the first failed input check, or nil when the input may be submitted.
func Validate(in models.Input) *Error {
	blankCaption := strings.TrimSpace(in.Caption) == ""

	switch {
	case in.Media == nil && blankCaption:
		return validationError(MsgMissingMediaAndCaption)
	case in.Media == nil:
		return validationError(MsgMissingMedia)
	case blankCaption:
		return validationError(MsgMissingCaption)
	}
	return nil
}
