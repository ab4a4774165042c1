package notify

import "fmt"

// OTPEmail builds the login code mail.
func OTPEmail(to, code, name string) Notification {
	if name == "" {
		name = "User"
	}
	return Notification{
		Kind:    KindOTP,
		To:      to,
		Subject: "OTP for Vivah Login",
		Body: fmt.Sprintf(
			"Hello %s,\nYour Login OTP for Vivah is %s. Valid for 10 minutes.",
			name, code,
		),
	}
}

// InterestEmail tells the receiver that someone expressed interest.
func InterestEmail(to, receiverName, senderName string) Notification {
	return Notification{
		Kind:    KindInterestReceived,
		To:      to,
		Subject: fmt.Sprintf("%s has shown interest in your Vivah profile", senderName),
		Body: fmt.Sprintf(
			"Hi %s,\n\n"+
				"%s has expressed interest in your profile on Vivah.\n"+
				"Please log in to your account to view their profile and respond accordingly.\n\n"+
				"Best regards,\nVivah Team",
			receiverName, senderName,
		),
	}
}

// InterestAcceptedEmail tells the original sender their interest was accepted.
func InterestAcceptedEmail(to, accepterName, senderName string) Notification {
	return Notification{
		Kind:    KindInterestAccepted,
		To:      to,
		Subject: fmt.Sprintf("%s has accepted your interest request on Vivah", accepterName),
		Body: fmt.Sprintf(
			"Hi %s,\n\n"+
				"Good news! %s has accepted your interest request on Vivah.\n"+
				"You can log in to your account to view their profile and continue your conversation.\n\n"+
				"Best wishes,\nVivah Team",
			senderName, accepterName,
		),
	}
}
