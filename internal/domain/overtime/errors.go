package overtime

import "errors"

var (
	ErrSettingsNotFound = errors.New("overtime settings not found")
	ErrInvalidMode      = errors.New("overtime mode must be global or individual")
)
