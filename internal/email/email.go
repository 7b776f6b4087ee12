package email

// Email is one outbound message.
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}
