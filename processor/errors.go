package processor

import "errors"

// ErrNilLedger indicates a Program constructed without a token ledger.
var ErrNilLedger = errors.New("processor: token ledger is nil")
