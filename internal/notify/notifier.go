package notify

import (
	"log"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers short out-of-band messages to users. Delivery is
// fire-and-forget: failures are logged and never block contest or
// vote operations.
type Notifier interface {
	Send(to, subject, body string) error
}

// SendAsync dispatches in the background and logs any failure.
func SendAsync(n Notifier, to, subject, body string) {
	go func() {
		if err := n.Send(to, subject, body); err != nil {
			log.Printf("notification to %s failed: %v", to, err)
		}
	}()
}

// TwilioNotifier sends messages through the Twilio messaging API.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewTwilio(accountSID, authToken, from string) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{client: client, from: from}
}

func (t *TwilioNotifier) Send(to, subject, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(subject + "\n" + body)

	_, err := t.client.Api.CreateMessage(params)
	return err
}

// LogNotifier is used when no messaging credentials are configured.
type LogNotifier struct{}

func (LogNotifier) Send(to, subject, body string) error {
	log.Printf("notification (not delivered) to=%s subject=%q", to, subject)
	return nil
}
