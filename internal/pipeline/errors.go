package pipeline

import "errors"

// ErrScanAborted is returned when the input cannot be classified and the
// scan terminates before any lookup stage runs.
var ErrScanAborted = errors.New("scan aborted")
