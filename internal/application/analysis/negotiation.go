package analysis

import (
	"fmt"
	"strings"
	"time"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

const (
	// FollowUpAfter is how far out the follow-up reminder is dated.
	FollowUpAfter = 3 * 24 * time.Hour

	reminderTitleDefault = "Follow up on contract negotiation"
	reminderTitleRisky   = "Follow-up on contract negotiation"

	noRiskIssue      = "No material red flags detected. Request a scope and payment addendum for clarity."
	noRiskGoal       = "Document payment milestones"
	fallbackGoal     = "Balance payment and liability terms"
	fallbackProposal = "Please suggest an alternative that keeps the engagement balanced for both sides."
)

const reminderDescription = `Reminder: Follow up with client on contract changes.

Prepared by: Synth-Law AI Assistant
Status: Awaiting client response

Next steps:
1. Send negotiation email if not already sent
2. Check for client response
3. Escalate if no response after 3 days`

const friendlyEmail = `Subject: Quick Confirmation on Contract Terms

Hi [Client Name],

Thanks for sharing the agreement. Everything looks good from my side. For documentation, could we add a short schedule with payment milestones and scope sign-off? That helps me track timelines and keep you updated.

Appreciate it and excited to start!

Best regards,
[Your Name]
Synth-Law Agentic Assistant`

const alignmentEmailHead = `Subject: Request for Contract Alignment

Hi [Client Name],

Thank you for sending the agreement. I'm keen to begin, and I want to make sure the terms work well for both of us. A few clauses would benefit from small adjustments so I can deliver with full focus:

`

const alignmentEmailTail = `

These updates mirror standard freelancer terms in India and will let me prioritise your project without unexpected risk. Once we align on them I'm ready to kick off immediately.

Let me know if we can sync over a quick call or you can send an updated draft, whichever is easier for you.

Best regards,
[Your Name]
Synth-Law Agentic Assistant`

// BuildCalendarReminder dates a follow-up FollowUpAfter from now. An empty
// title gets the default.
func BuildCalendarReminder(title string, now time.Time) *types.CalendarReminder {
	if title == "" {
		title = reminderTitleDefault
	}
	return &types.CalendarReminder{
		Title:       title,
		Date:        now.UTC().Add(FollowUpAfter).Format("2006-01-02"),
		Description: reminderDescription,
	}
}

// BuildNegotiation produces the deterministic negotiation package.
func BuildNegotiation(risks []types.RiskInsight, now time.Time) types.NegotiationInsight {
	if len(risks) == 0 {
		return types.NegotiationInsight{
			Issues:           []string{noRiskIssue},
			DraftEmail:       friendlyEmail,
			UserGoals:        []string{noRiskGoal},
			CalendarReminder: BuildCalendarReminder("", now),
		}
	}

	issues := make([]string, 0, len(risks))
	goals := make([]string, 0, len(risks))
	seenGoal := make(map[string]struct{}, len(risks))
	bullets := make([]string, 0, len(risks))

	for i, r := range risks {
		issue, headline, proposal := r.Explanation, r.Clause, fallbackProposal
		if n := r.Negotiation; n != nil {
			if n.Issue != "" {
				issue, headline = n.Issue, n.Issue
			}
			if n.Proposal != "" {
				proposal = n.Proposal
			}
			if n.Goal != "" {
				if _, dup := seenGoal[n.Goal]; !dup {
					seenGoal[n.Goal] = struct{}{}
					goals = append(goals, n.Goal)
				}
			}
		}
		issues = append(issues, issue)
		bullets = append(bullets, fmt.Sprintf("%d. %s\n   Suggested change: %s", i+1, headline, proposal))
	}
	if len(goals) == 0 {
		goals = []string{fallbackGoal}
	}

	return types.NegotiationInsight{
		Issues:           issues,
		DraftEmail:       alignmentEmailHead + strings.Join(bullets, "\n\n") + alignmentEmailTail,
		UserGoals:        goals,
		CalendarReminder: BuildCalendarReminder(reminderTitleRisky, now),
	}
}
