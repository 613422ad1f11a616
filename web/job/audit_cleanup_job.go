// Package job holds the scheduled maintenance tasks run by the web server's
// cron scheduler.
package job

import (
	"qatrack/config"
	"qatrack/logger"
	"qatrack/web/service"
)

// AuditCleanupJob removes audit entries past the retention window.
type AuditCleanupJob struct {
	auditService service.AuditService
}

func NewAuditCleanupJob() *AuditCleanupJob {
	return &AuditCleanupJob{}
}

func (j *AuditCleanupJob) Run() {
	logger.Debug("audit cleanup job started")

	retentionDays := config.GetAuditRetentionDays()
	if err := j.auditService.CleanOldEntries(retentionDays); err != nil {
		logger.Warning("failed to clean old audit entries:", err)
	} else {
		logger.Debugf("audit cleanup completed (retention: %d days)", retentionDays)
	}
}
