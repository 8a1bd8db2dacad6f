package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrLedgerCorrupted means a refund was requested for a result that was never recorded.
	ErrLedgerCorrupted = errors.New("match ledger corrupted")
	// ErrUnresolvedCompetitor means an open or complete match names a participant the directory does not know.
	ErrUnresolvedCompetitor = errors.New("unresolved competitor")
	// ErrUnknownWinner means a complete match declares a winner that is neither side.
	ErrUnknownWinner = errors.New("winner is neither side of the match")
)
