package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

type NoticeKind string

const (
	KindJoined          = NoticeKind("joined")
	KindWaitlisted      = NoticeKind("waitlisted")
	KindPromoted        = NoticeKind("promoted")
	KindPasscodeRotated = NoticeKind("passcode_rotated")
)

// Notice is a participation change worth telling someone about. Delivery is
// best effort: publishing failures never fail the mutation that caused them.
type Notice struct {
	EventID     string     `json:"event_id"`
	EventTitle  string     `json:"event_title"`
	Participant string     `json:"participant,omitempty"`
	Kind        NoticeKind `json:"kind"`
	Message     string     `json:"message"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, notice *Notice) error
	Close() error
}

// LogHandler is the default consumer: it writes each notice to the log.
// A mail or messenger integration would replace this.
func LogHandler(body []byte) error {
	var notice Notice
	if err := json.Unmarshal(body, &notice); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":    notice.EventID,
		"event_title": notice.EventTitle,
		"participant": notice.Participant,
		"kind":        notice.Kind,
	}).Info(notice.Message)
	return nil
}
