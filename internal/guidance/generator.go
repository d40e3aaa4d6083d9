package guidance

import (
	"fmt"

	"github.com/exposurelab/exposurescan/internal/model"
)

// passwordManagerTheme is the de-duplication key for the closing
// recommendation, matched case-insensitively against existing titles.
const passwordManagerTheme = "password manager"

// Generate builds the remediation plan from whichever results are
// present. Rules fire in a fixed order and each firing rule appends one
// recommendation with the next ascending priority.
func Generate(breach *model.BreachResult, correlation *model.CorrelationResult, image *model.ImageRiskResult) model.Guidance {
	plan := model.Guidance{Recommendations: []model.Recommendation{}}

	add := func(category model.Category, title, description string, urgency model.Urgency) {
		plan.Recommendations = append(plan.Recommendations, model.Recommendation{
			Priority:    len(plan.Recommendations) + 1,
			Category:    category,
			Title:       title,
			Description: description,
			Urgency:     urgency,
		})
	}

	if breach != nil && breach.Found {
		if breach.Severity == model.SeverityHigh || breach.Severity == model.SeverityCritical {
			add(model.CategoryAccountSecurity,
				"Change your passwords immediately",
				"Your email appears in serious data breaches. Change the password on every account that shares it, starting with email and banking.",
				model.UrgencyImmediate)
			add(model.CategoryAccountSecurity,
				"Enable two-factor authentication",
				"Add a second authentication factor to your important accounts so a leaked password alone cannot unlock them.",
				model.UrgencyImmediate)
		} else {
			add(model.CategoryAccountSecurity,
				"Review and update your passwords",
				"Your email appears in known data breaches. Replace any password you were using at the time of those breaches.",
				model.UrgencySoon)
		}
		add(model.CategoryMonitoring,
			"Monitor your accounts for suspicious activity",
			"Watch for unexpected sign-in notifications, password reset emails, and unfamiliar transactions on accounts tied to this email.",
			model.UrgencySoon)
	}

	if correlation != nil {
		found := correlation.FoundCount()
		if found >= 3 {
			add(model.CategoryPrivacy,
				"Vary your usernames across platforms",
				"Reusing one handle everywhere lets strangers link your accounts together. Consider distinct handles for unrelated contexts.",
				model.UrgencyWhenPossible)
		}
		if found >= 1 {
			add(model.CategoryPlatformAction,
				"Review privacy settings on found platforms",
				fmt.Sprintf("Accounts matching this identifier were found on %d platforms. Check what each profile exposes publicly.", found),
				model.UrgencySoon)
		}
	}

	if image != nil && image.Analyzed && len(image.ExposureIndicators) >= 1 {
		add(model.CategoryPrivacy,
			"Review your image sharing settings",
			"The image appears in locations beyond its original URL. Review where it is hosted and restrict sharing where possible.",
			model.UrgencySoon)
	}

	if len(plan.Recommendations) == 0 {
		add(model.CategoryMonitoring,
			"Stay vigilant",
			"No specific exposure was found, but signals are best-effort. Stay alert to phishing attempts and unexpected account activity.",
			model.UrgencyWhenPossible)
		add(model.CategoryMonitoring,
			"Schedule periodic security check-ups",
			"Re-run an exposure check every few months; new breaches surface continuously.",
			model.UrgencyWhenPossible)
	}

	if !plan.HasRecommendationTitled(passwordManagerTheme) {
		add(model.CategoryAccountSecurity,
			"Use a password manager",
			"A password manager lets every account have a unique, strong password without memorizing any of them.",
			model.UrgencyWhenPossible)
	}

	return plan
}
