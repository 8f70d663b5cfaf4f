package domain

import "errors"

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrRunInProgress     = errors.New("reminder run already in progress")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrDuplicateSlotTime = errors.New("duplicate active slot time")
	ErrUnknownTimezone   = errors.New("unknown timezone")
)
