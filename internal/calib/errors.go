package calib

import "errors"

var (
	// ErrParse indicates a calibration file that is not valid CSV or has
	// non-numeric cells.
	ErrParse = errors.New("calib: malformed calibration file")

	// ErrDuplicatePad indicates a pad id listed more than once.
	ErrDuplicatePad = errors.New("calib: duplicate pad id")

	// ErrUnknownSubject indicates a subject with no calibration data.
	ErrUnknownSubject = errors.New("calib: unknown subject")
)
