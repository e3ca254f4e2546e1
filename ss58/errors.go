package ss58

import "fmt"

// InvalidAddress is returned by Decode when a string is not a
// well-formed SS58 address.
type InvalidAddress struct {
	Reason string
}

func (e InvalidAddress) Error() string {
	return fmt.Sprintf("invalid ss58 address: %s", e.Reason)
}
