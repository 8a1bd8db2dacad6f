package competitor

import "errors"

// ErrOutcomeMismatch reports an Outcome that does not belong to the competitor.
var ErrOutcomeMismatch = errors.New("outcome does not match competitor")
