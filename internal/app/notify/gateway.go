// internal/app/notify/gateway.go
package notify

import (
	"context"
	"fmt"

	"github.com/dalemusser/parishhub/internal/app/system/apperr"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Gateway delivers one SMS to one recipient. Implementations must be
// safe for concurrent use.
type Gateway interface {
	Send(ctx context.Context, phone, body string) error
}

// Summary is the delivery outcome for one fan-out batch. Recipients
// without a phone number are skipped before the attempt and never
// counted.
type Summary struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// TwilioGateway sends through the Twilio Messaging API.
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioGateway builds a gateway from account credentials and the
// sending number (E.164).
func NewTwilioGateway(accountSID, authToken, from string) *TwilioGateway {
	return &TwilioGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// Send delivers one message. The Twilio client manages its own HTTP
// deadlines; ctx is honored by checking for cancellation up front.
func (g *TwilioGateway) Send(ctx context.Context, phone, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send to %s: %w", phone, apperr.ErrGatewaySendFailed)
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(g.from)
	params.SetBody(body)
	if _, err := g.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send to %s: %v: %w", phone, err, apperr.ErrGatewaySendFailed)
	}
	return nil
}
