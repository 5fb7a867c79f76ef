package mailer

import (
	"context"
	"fmt"
	"strings"
)

// SendJobRequestNotification tells a technician a company wants to hire them.
func (c *Client) SendJobRequestNotification(ctx context.Context, to, companyName, workLocation, startDate, endDate string) error {
	subject := fmt.Sprintf("New job request from %s", companyName)
	text := fmt.Sprintf(
		"%s has sent you a job request.\n\nLocation: %s\nDates: %s to %s\n\nSign in to accept or decline.",
		companyName, workLocation, startDate, endDate,
	)
	return c.Send(ctx, Message{To: to, Subject: subject, Text: text})
}

// SendProfileReminder nudges a technician about the unfinished parts of
// their profile.
func (c *Client) SendProfileReminder(ctx context.Context, to string, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	text := fmt.Sprintf(
		"Your profile is almost there. Still missing:\n\n- %s\n\nComplete profiles get shown to more companies.",
		strings.Join(missing, "\n- "),
	)
	return c.Send(ctx, Message{To: to, Subject: "Finish setting up your profile", Text: text})
}

// SendStaleAvailabilityReminder asks a technician to refresh availability
// that is getting old enough to be ranked down in search.
func (c *Client) SendStaleAvailabilityReminder(ctx context.Context, to string, daysOld int) error {
	text := fmt.Sprintf(
		"Your availability was last updated %d days ago. Companies see fresher availability first, so take a minute to confirm or update your dates.",
		daysOld,
	)
	return c.Send(ctx, Message{To: to, Subject: "Is your availability still accurate?", Text: text})
}
