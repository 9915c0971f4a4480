package amqp

import (
	"encoding/json"
	"time"

	"ipcynab/internal/core"
	"ipcynab/internal/notify"
)

// RunSummaryMessage is the report of one reconciliation run as published to
// the exchange. Amounts are millicents.
type RunSummaryMessage struct {
	Status     string          `json:"status"`
	Mode       string          `json:"mode"`
	Period     string          `json:"period,omitempty"`
	Rate       string          `json:"rate,omitempty"`
	Subject    string          `json:"subject"`
	Body       string          `json:"body"`
	Error      string          `json:"error,omitempty"`
	Results    []ResultMessage `json:"results"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Timestamp  time.Time       `json:"timestamp"`
}

type ResultMessage struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Status       string `json:"status"`
	OldAmount    int64  `json:"old_amount"`
	NewAmount    int64  `json:"new_amount"`
	Entry        string `json:"entry,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func NewRunSummaryMessage(r core.RunReport) *RunSummaryMessage {
	msg := &RunSummaryMessage{
		Status:     string(r.Status),
		Mode:       string(r.Mode),
		Subject:    notify.Subject(r),
		Body:       notify.Body(r),
		Results:    make([]ResultMessage, 0, len(r.Results)),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Timestamp:  time.Now(),
	}
	if r.Rate != nil {
		msg.Period = r.Rate.Period
		msg.Rate = r.Rate.Percent.String()
	}
	if r.Err != nil {
		msg.Error = r.Err.Error()
	}
	for _, res := range r.Results {
		msg.Results = append(msg.Results, ResultMessage{
			CategoryID:   res.CategoryID,
			CategoryName: res.CategoryName,
			Status:       string(res.Status),
			OldAmount:    res.OldAmount,
			NewAmount:    res.NewAmount,
			Entry:        res.Entry,
			Reason:       res.Reason,
		})
	}
	return msg
}

func (m *RunSummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RunSummaryMessageFromJSON(data []byte) (*RunSummaryMessage, error) {
	var msg RunSummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
