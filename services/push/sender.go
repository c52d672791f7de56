package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrEndpointGone marks a terminal delivery failure: the push service
// reported the subscriber endpoint no longer exists (HTTP 404 or 410).
var ErrEndpointGone = errors.New("push endpoint gone")

// Sender delivers one serialized payload to one subscription credential.
type Sender interface {
	Send(ctx context.Context, credential []byte, payload []byte) error
}

// VAPIDKeys holds the service-wide Web Push signing credentials.
type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string
	Subject    string // contact claim, a mailto: or https: URL
}

// WebPushSender sends messages over the Web Push protocol, signing each
// request with the service VAPID key pair.
type WebPushSender struct {
	keys VAPIDKeys
	ttl  int
}

// NewWebPushSender creates a sender with the given signing credentials.
func NewWebPushSender(keys VAPIDKeys) *WebPushSender {
	return &WebPushSender{
		keys: keys,
		ttl:  60,
	}
}

// Send delivers payload to the subscription described by the opaque
// credential blob. Exactly one attempt is made; retry policy is the
// caller's concern.
func (s *WebPushSender) Send(ctx context.Context, credential []byte, payload []byte) error {
	sub := &webpush.Subscription{}
	if err := json.Unmarshal(credential, sub); err != nil {
		return fmt.Errorf("decode subscription credential: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, sub, &webpush.Options{
		Subscriber:      s.keys.Subject,
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	return nil
}
