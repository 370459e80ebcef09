// internal/workers/communication/deliver-report/service.go
package deliverreport

import (
	"context"
	"time"

	"compare-workers/internal/common/aws"
	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/metrics"

	"github.com/google/uuid"
)

type Service struct {
	deps   ServiceDependencies
	config *Config
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{deps: deps, config: config, now: time.Now}
}

// Execute sends the email first. An email failure fails the job so it can be
// retried; an SMS failure after a delivered email only downgrades the status,
// since a retry would send the email twice.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{
		ReportID: uuid.NewString(),
		Status:   StatusDisabled,
		Channels: []string{},
	}

	emailed := false
	if s.emailEnabled() && input.RecipientEmail != "" {
		body, err := RenderReport(input, out.ReportID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		msgID, err := s.deps.Email.Send(ctx, aws.Email{
			To:      input.RecipientEmail,
			Subject: s.config.Subject,
			Text:    body,
		})
		if err != nil {
			metrics.ReportsDelivered.WithLabelValues(ChannelEmail, "failed").Inc()
			return nil, errors.NewReportDeliveryFailedError(ChannelEmail, err)
		}
		metrics.ReportsDelivered.WithLabelValues(ChannelEmail, StatusSent).Inc()
		out.EmailMessageID = msgID
		out.Channels = append(out.Channels, ChannelEmail)
		emailed = true
	}

	if s.smsEnabled() && input.RecipientPhone != "" {
		msgID, err := s.deps.SMS.Send(ctx, input.RecipientPhone, SMSSummary(input, emailed))
		switch {
		case err != nil && !emailed:
			metrics.ReportsDelivered.WithLabelValues(ChannelSMS, "failed").Inc()
			return nil, errors.NewReportDeliveryFailedError(ChannelSMS, err)
		case err != nil:
			metrics.ReportsDelivered.WithLabelValues(ChannelSMS, "failed").Inc()
			s.deps.Logger.Warn("SMS summary failed after email was sent", map[string]interface{}{
				"reportId": out.ReportID,
				"error":    err.Error(),
			})
			out.Status = StatusPartial
		default:
			metrics.ReportsDelivered.WithLabelValues(ChannelSMS, StatusSent).Inc()
			out.SMSMessageID = msgID
			out.Channels = append(out.Channels, ChannelSMS)
		}
	}

	if len(out.Channels) > 0 && out.Status != StatusPartial {
		out.Status = StatusSent
	}
	if out.Status == StatusDisabled {
		metrics.ReportsDelivered.WithLabelValues("none", StatusDisabled).Inc()
	}
	out.SentAt = s.now().UTC().Format(time.RFC3339)
	return out, nil
}

func (s *Service) emailEnabled() bool {
	return s.config.EmailEnabled && s.deps.Email != nil
}

func (s *Service) smsEnabled() bool {
	return s.config.SMSEnabled && s.deps.SMS != nil
}
