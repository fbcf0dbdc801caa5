package scheduler

import "errors"

// ErrInvalidRange is returned when the expansion end date precedes the
// start date.  Handlers map it to a 400 response.
var ErrInvalidRange = errors.New("end date before start date")
