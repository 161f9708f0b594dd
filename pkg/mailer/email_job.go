package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template is one of the names in pkg/mailer/templates; Data feeds the
// subject/text/html templates for that name.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "login_notification", "password_changed"
	Data     map[string]any `json:"data,omitempty"`
}
