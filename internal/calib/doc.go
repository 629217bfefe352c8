// Package calib reads the per-subject calibration data consumed by the
// filter: the initial probability of every pad and the sensitivity table
// used by the correction step.
//
// Initial probability files hold one value per pad, either one per line or
// as "padId,value" rows, with an optional header:
//
//	PadID,InitialProb
//	1,0.02
//	2,0.11
//
// Correction tables start with a header naming the pad column followed by
// either a single weight column or one column per calibrated angle:
//
//	PadID,-90,0,45,90
//	1,0.8,1.0,1.2,1.4
//
// Weights between calibrated angles are linearly interpolated and clamped
// outside the calibrated range.
package calib
