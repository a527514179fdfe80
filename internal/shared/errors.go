package shared

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// config errors
const (
	ErrorCreateFile = Error("could not create the file")
	ErrorEncodeFile = Error("could not encode to file")
)

// configuration validation errors
const (
	ErrUnknownDriver   = Error("unknown database driver")
	ErrInvalidInterval = Error("invalid sync interval")
)
