package classifier

import "errors"

var (
	ErrUnknownEngine = errors.New("unknown classifier engine")
	ErrLoadLabels    = errors.New("load labels failed")
)
