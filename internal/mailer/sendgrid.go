package mailer

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sendgrid delivers mail through the SendGrid v3 API.
type Sendgrid struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

// NewSendgrid builds a sendgrid-backed mailer. Subjects are prefixed with
// the app name, e.g. "[College Digital Portal] ".
func NewSendgrid(key, appName, fromEmail string) *Sendgrid {
	return &Sendgrid{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

// Send delivers one message.
func (s *Sendgrid) Send(job Job) error {
	to := sgmail.NewEmail("", job.To)
	msg := sgmail.NewSingleEmail(s.from, s.subjPrefix+job.Subject, to, "", job.HTML)

	resp, err := sendgrid.NewSendClient(s.key).Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: send failed (%d): %s", resp.StatusCode, resp.Body)
	}
	return nil
}
