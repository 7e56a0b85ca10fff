package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"timeworth/internal/core"
)

// AlertMessage is the wire form of a core.Alert on the alerts queue.
type AlertMessage struct {
	ID         string         `json:"id"`
	Kind       core.AlertKind `json:"kind"`
	SubjectID  string         `json:"subjectId"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Percentage float64        `json:"percentage"`
	Period     time.Time      `json:"period,omitzero"`
	CreatedAt  time.Time      `json:"createdAt"`
	DedupKey   string         `json:"dedupKey"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewAlertMessage wraps alert with a fresh message id.
func NewAlertMessage(alert core.Alert) *AlertMessage {
	return &AlertMessage{
		ID:         uuid.NewString(),
		Kind:       alert.Kind,
		SubjectID:  alert.SubjectID,
		Title:      alert.Title,
		Message:    alert.Message,
		Percentage: alert.Percentage,
		Period:     alert.Period,
		CreatedAt:  alert.CreatedAt,
		DedupKey:   alert.DedupKey(),
		Timestamp:  time.Now(),
	}
}

// Alert converts the message back to the domain type.
func (m *AlertMessage) Alert() core.Alert {
	return core.Alert{
		Kind:       m.Kind,
		SubjectID:  m.SubjectID,
		Title:      m.Title,
		Message:    m.Message,
		Percentage: m.Percentage,
		Period:     m.Period,
		CreatedAt:  m.CreatedAt,
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
