package service

import (
	"time"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
	"github.com/healthcover/service-approval-api/pkg/utils"
)

// CheckEligibility decides whether user may request a new service approval on the given day.
// The returned error names the first failing condition.
func CheckEligibility(user *models.User, today time.Time, cfg *config.ApprovalConfig) *serviceerror.ServiceError {
	if user.Policy == nil {
		return serviceerror.CustomServiceError(serviceerror.IneligibleError, "User has no insurance policy")
	}

	if utils.IsDateBefore(user.Policy.ExpirationDate, today) {
		return serviceerror.CustomServiceErrorf(serviceerror.IneligibleError,
			"Insurance policy %s expired on %s", user.Policy.PolicyNumber, user.Policy.ExpirationDate.Format("2006-01-02"))
	}

	if cfg.IsBlockedAccountStatus(user.Status) {
		return serviceerror.CustomServiceErrorf(serviceerror.IneligibleError,
			"Account status %s does not allow new approvals", user.Status)
	}

	return nil
}
