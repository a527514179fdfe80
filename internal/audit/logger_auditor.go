// filepath: internal/audit/logger_auditor.go
package audit

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/services"
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Ensure LoggerAuditor implements services.Auditor
var _ services.Auditor = (*LoggerAuditor)(nil)

// LoggerAuditor writes audit events as structured log lines on a dedicated logger.
type LoggerAuditor struct {
	enabled bool
	logger  *logrus.Logger
}

// NewLoggerAuditor creates a new instance of LoggerAuditor.
func NewLoggerAuditor(enabled bool) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled, logger: logging.NewLogger("info")}
}

// SetOutput redirects the audit stream.
func (a *LoggerAuditor) SetOutput(w io.Writer) {
	a.logger.SetOutput(w)
}

// Log records an event if auditing is enabled.
func (a *LoggerAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit_action":   action,
		"audit_actor":    actor,
		"audit_resource": resource,
	}
	for k, v := range details {
		fields["detail."+k] = v
	}

	a.logger.WithFields(fields).Info("AUDIT EVENT")
}
