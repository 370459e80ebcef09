// internal/workers/communication/deliver-report/models.go
package deliverreport

import (
	"context"

	"compare-workers/internal/common/aws"
	"compare-workers/internal/common/logger"
)

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type Input struct {
	RecipientEmail string      `json:"recipientEmail,omitempty"`
	RecipientPhone string      `json:"recipientPhone,omitempty"`
	Category       string      `json:"category,omitempty"`
	BestItemName   string      `json:"bestItemName"`
	Explanation    string      `json:"explanation,omitempty"`
	RankedItems    []RankedRow `json:"rankedItems,omitempty"`
}

// RankedRow reads the rows rank-items emits; attributes are ignored.
type RankedRow struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Output struct {
	ReportID       string   `json:"reportId"`
	Status         string   `json:"status"`
	Channels       []string `json:"channels"`
	EmailMessageID string   `json:"emailMessageId,omitempty"`
	SMSMessageID   string   `json:"smsMessageId,omitempty"`
	SentAt         string   `json:"sentAt"`
}

type EmailSender interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

// ServiceDependencies leaves a sender nil when its channel is disabled.
type ServiceDependencies struct {
	Email  EmailSender
	SMS    SMSSender
	Logger logger.Logger
}
