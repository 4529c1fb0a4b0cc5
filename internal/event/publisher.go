package event

import (
	"context"
	"time"
)

const RoutingKeyReportGenerated = "credit_report.generated"

type ReportGeneratedEvent struct {
	BorrowerID  string    `json:"borrowerId"`
	Format      string    `json:"format"`
	CreditScore int       `json:"creditScore"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type ReportPublisher interface {
	PublishReportGenerated(ctx context.Context, event ReportGeneratedEvent) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishReportGenerated(context.Context, ReportGeneratedEvent) error {
	return nil
}
