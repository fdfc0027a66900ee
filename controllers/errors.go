package controllers

// CustomError carries a stable, user-facing message.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// Error taxonomy: conflicts (409), failed preconditions (412), lookup
// misses (404), bad credentials (401). Anything else surfaces as a
// generic request failure (500). Failed mutations never change state.
var (
	ErrTableOccupied      = &CustomError{"table already has an open session"}
	ErrTableInService     = &CustomError{"table has an open session and cannot be deleted"}
	ErrSessionClosed      = &CustomError{"session is closed"}
	ErrOrderServed        = &CustomError{"order already served"}
	ErrSessionAlreadyDone = &CustomError{"session already closed"}
	ErrUnservedOrders     = &CustomError{"session has unserved orders"}
	ErrInvalidCredentials = &CustomError{"invalid credentials"}
	ErrPhoneTaken         = &CustomError{"phone number already registered"}
	ErrNoPermission       = &CustomError{"you do not have permission"}
)
