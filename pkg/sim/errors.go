package sim

import "errors"

// ErrUnknownDevice indicates no device on the bench has the name.
var ErrUnknownDevice = errors.New("unknown device")
