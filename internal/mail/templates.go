package mail

import (
	"bytes"
	htmltemplate "html/template"
	"net/url"
	"strings"
	"text/template"
)

const (
	resetSubject   = "Password reset request"
	changedSubject = "Your password was changed"
)

var (
	resetText = template.Must(template.New("reset").Parse(`Hello,

We received a request to reset the password for {{.Email}}.
Open the link below to choose a new password. It expires in {{.TTL}}.

{{.Link}}

If you did not request this, you can ignore this email.
`))

	resetHTML = htmltemplate.Must(htmltemplate.New("reset").Parse(`<p>Hello,</p>
<p>We received a request to reset the password for {{.Email}}.</p>
<p><a href="{{.Link}}">Reset your password</a> (expires in {{.TTL}}).</p>
<p>If you did not request this, you can ignore this email.</p>
`))

	changedText = template.Must(template.New("changed").Parse(`Hello,

The password for {{.Email}} was just changed.
If this was not you, reset your password immediately.
`))
)

type resetData struct {
	Email string
	Link  string
	TTL   string
}

// ResetLink builds the frontend URL that carries token.
func ResetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// PasswordResetMessage renders the reset email for email.
func PasswordResetMessage(frontendURL, email, token, ttl string) (Message, error) {
	data := resetData{Email: email, Link: ResetLink(frontendURL, token), TTL: ttl}

	var text, html bytes.Buffer
	if err := resetText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := resetHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}
	return Message{To: email, Subject: resetSubject, Text: text.String(), HTML: html.String()}, nil
}

// PasswordChangedMessage renders the notice sent after a password change or reset.
func PasswordChangedMessage(email string) (Message, error) {
	var text bytes.Buffer
	if err := changedText.Execute(&text, struct{ Email string }{email}); err != nil {
		return Message{}, err
	}
	return Message{To: email, Subject: changedSubject, Text: text.String()}, nil
}
