package mailer

import (
	"fmt"
	"strings"

	"olilab/inventory"
)

const signature = "\nThank you,\nThe OliLab Team\n"

// Render 事件对应的主题和正文
func Render(ev inventory.EmailEvent) (subject, body string, err error) {
	u := ev.Subject
	switch ev.Type {
	case inventory.EmailNewUserPending:
		var b strings.Builder
		b.WriteString("Hello OliLab Administrators,\n\n")
		b.WriteString("A new user has just signed up and is awaiting approval.\n\n")
		b.WriteString("User Details:\n")
		fmt.Fprintf(&b, "- Full Name: %s\n- Username: %s\n- Email: %s\n- Role: %s\n", u.FullName, u.Username, u.Email, u.Role)
		if u.LRN != "" {
			fmt.Fprintf(&b, "- LRN: %s\n", u.LRN)
		}
		if u.GradeLevel != nil {
			section := ""
			if u.Section != nil {
				section = *u.Section
			}
			fmt.Fprintf(&b, "- Grade: %s - %s\n", *u.GradeLevel, section)
		}
		b.WriteString("\nPlease visit the 'Users' page in the dashboard to approve or deny this registration request.\n")
		b.WriteString("\nThank you,\nOliLab System\n")
		return "New User Registration Pending Approval: " + u.FullName, b.String(), nil

	case inventory.EmailAccountApproved:
		return "Your OliLab Account Has Been Approved!",
			fmt.Sprintf("Hi %s,\n\nGreat news! Your registration for OliLab has been approved by an administrator.\n"+
				"You can now log in to your account and start using the system.\n\nWelcome aboard!\n%s", u.FullName, signature), nil

	case inventory.EmailAccountDenied:
		return "Update on Your OliLab Account Registration",
			fmt.Sprintf("Hi %s,\n\nThank you for your interest in OliLab. After a review, your registration request has been denied at this time.\n"+
				"If you believe this was a mistake, please contact a laboratory administrator directly.\n%s", u.FullName, signature), nil
	}
	return "", "", fmt.Errorf("unknown email event %q", ev.Type)
}
