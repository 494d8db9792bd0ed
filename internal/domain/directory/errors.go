package directory

import "errors"

var (
	ErrEntryNotFound    = errors.New("directory entry not found")
	ErrCFMSIDExists     = errors.New("employee with this CFMS ID already exists")
	ErrEmployeeIDExists = errors.New("employee with this Employee ID already exists")
	ErrCFMSIDRequired   = errors.New("CFMS ID is required")
)
