package dsmetrics

import "errors"

// ErrBindPanic wraps a panic raised while installing a tracker factory.
var ErrBindPanic = errors.New("dsmetrics: panic while binding pool metrics")
