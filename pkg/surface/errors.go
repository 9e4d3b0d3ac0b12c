package surface

import "errors"

// ErrNoHost signals a surface constructed without a Host.
var ErrNoHost = errors.New("surface: host is required")
