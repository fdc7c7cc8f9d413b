package client

import (
	"errors"
	"fmt"
)

// Notice is a user-facing message. Every client error a caller should show
// is a *Notice; Destructive marks failures as opposed to confirmations.
type Notice struct {
	Title       string
	Message     string
	Destructive bool
}

func (n *Notice) Error() string { return n.Title + ": " + n.Message }

// Notices shown by the client. They are values, never mutated.
var (
	NoticePasswordMismatch = &Notice{Title: "Password Mismatch", Message: "Passwords do not match. Please try again.", Destructive: true}
	NoticeLoginToFavorite  = &Notice{Title: "Login Required", Message: "Please login to save favorites", Destructive: true}
	NoticeLoginToContact   = &Notice{Title: "Login Required", Message: "Please login to contact space owners", Destructive: true}
	NoticeLoadFailed       = &Notice{Title: "Error", Message: "Failed to load spaces", Destructive: true}
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("api: %d %s", e.Status, e.Message) }

// AsNotice turns any error into a Notice with the given title. Notices pass
// through unchanged and API errors keep the server's message.
func AsNotice(err error, title string) *Notice {
	if err == nil {
		return nil
	}
	var n *Notice
	if errors.As(err, &n) {
		return n
	}
	var api *APIError
	if errors.As(err, &api) && api.Message != "" {
		return &Notice{Title: title, Message: api.Message, Destructive: true}
	}
	return &Notice{Title: title, Message: "Something went wrong", Destructive: true}
}
