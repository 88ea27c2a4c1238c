package export

import "fmt"

// SerializationError reports that a budget could not be encoded, typically
// because it holds a non-finite number.
type SerializationError struct {
	Format Format
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// DeliveryError reports that an encoded payload could not be handed to the user.
type DeliveryError struct {
	Filename string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Filename, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
