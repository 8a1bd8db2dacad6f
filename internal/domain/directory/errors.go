package directory

import "errors"

// ErrDirectoryUnavailable wraps every failure of the backing row store.
var ErrDirectoryUnavailable = errors.New("competitor directory unavailable")
