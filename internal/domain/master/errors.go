package master

import "errors"

var (
	ErrStaffNotFound = errors.New("staff record not found")
)
