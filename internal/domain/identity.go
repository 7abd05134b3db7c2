package domain

// Identity is the already-authenticated caller. It is resolved at the transport edge and passed
// explicitly into every order operation.
type Identity struct {
	UserID  uint
	IsAdmin bool
}
