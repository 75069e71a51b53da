package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"real-estate-marketplace/internal/models"
)

// Sender delivers one push message to one user. Implementations must treat
// delivery as best-effort; the caller decides whether to log or retry.
type Sender interface {
	Send(user *models.User, title, body, link string) error
}

const defaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMSender pushes through the Firebase Cloud Messaging HTTP API.
type FCMSender struct {
	client    *http.Client
	serverKey string
	endpoint  string
}

func NewFCMSender(serverKey, endpoint string) *FCMSender {
	if endpoint == "" {
		endpoint = defaultFCMEndpoint
	}
	return &FCMSender{
		client:    &http.Client{Timeout: 10 * time.Second},
		serverKey: serverKey,
		endpoint:  endpoint,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *FCMSender) Send(user *models.User, title, body, link string) error {
	if user.FCMToken == "" {
		return fmt.Errorf("user %s has no FCM token", user.Username)
	}
	if link == "" {
		link = "/"
	}

	payload, err := json.Marshal(fcmMessage{
		To:           user.FCMToken,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         map[string]string{"url": link},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("FCM returned status %d", resp.StatusCode)
	}
	return nil
}

// disabledSender is used when no server key is configured.
type disabledSender struct{}

func (disabledSender) Send(user *models.User, title, body, link string) error {
	log.Printf("[Notify] Push disabled, dropping notification for %s: %s", user.Username, title)
	return nil
}

// NewSender returns an FCM sender, or a no-op sender when no key is set.
func NewSender(serverKey, endpoint string) Sender {
	if serverKey == "" {
		return disabledSender{}
	}
	return NewFCMSender(serverKey, endpoint)
}

// Dispatcher decouples push delivery from the primary write. DispatchAfterCommit
// is called only after the surrounding transaction has committed; delivery runs
// in the background and failures are logged, never propagated to the request
// that triggered them.
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

func (d *Dispatcher) DispatchAfterCommit(user *models.User, title, body, link string) {
	if user == nil || user.FCMToken == "" {
		return
	}
	go func() {
		if err := d.sender.Send(user, title, body, link); err != nil {
			log.Printf("[Notify] Failed to push to %s: %v", user.Username, err)
		}
	}()
}

// DispatchSync delivers inline; used by the announcement worker which already
// runs in the background.
func (d *Dispatcher) DispatchSync(user *models.User, title, body, link string) error {
	return d.sender.Send(user, title, body, link)
}
