package api

// Form field names posted to the contact endpoint.
const (
	FormName    = "name"
	FormEmail   = "email"
	FormSubject = "subject"
	FormMessage = "message"
	FormPrivacy = "privacy"
)

// Response DTOs

// ContactResponse is the body of every contact endpoint response.
// Notified is only set on accepted submissions.
type ContactResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Notified *bool  `json:"notified,omitempty"`
}
