package notification

import (
	"fmt"

	"github.com/garrettladley/moyo/internal/model"
)

const (
	BPReminderSubject = "Reminder: Take Your Blood Pressure Reading"
	InsightSubject    = "New Health Insight Available"
)

func greeting(u model.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// BPReminder builds the reminder sent by the reminder worker.
func BPReminder(u model.User) model.NotificationLog {
	return model.NotificationLog{
		UserID:           u.ID,
		UserEmail:        u.Email,
		NotificationType: model.NotificationBPReminder,
		Subject:          BPReminderSubject,
		Message: fmt.Sprintf("Hello %s,\n\n"+
			"This is a friendly reminder to take your blood pressure reading.\n\n"+
			"Tracking your BP regularly helps you monitor your cardiovascular health, "+
			"identify patterns and share accurate data with your healthcare provider.",
			greeting(u)),
	}
}

func Insight(u model.User, text string) model.NotificationLog {
	return model.NotificationLog{
		UserID:           u.ID,
		UserEmail:        u.Email,
		NotificationType: model.NotificationInsight,
		Subject:          InsightSubject,
		Message:          fmt.Sprintf("Hello %s,\n\nYou have a new health insight:\n\n%s", greeting(u), text),
	}
}
