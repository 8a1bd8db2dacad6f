package challonge

import "errors"

// ErrUnexpectedStatus is returned for non-2xx responses other than 404.
var ErrUnexpectedStatus = errors.New("challonge: unexpected status")
