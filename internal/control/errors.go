package control

import "errors"

// ErrUnknownParam is returned by SetParam for names not in GetParams.
var ErrUnknownParam = errors.New("control: unknown parameter")
