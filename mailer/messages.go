package mailer

import "fmt"

// ContactMessage builds the notification sent to the blog owner when a
// visitor submits the contact form.
func ContactMessage(to, name, email, message string) Message {
	return Message{
		To:      to,
		ReplyTo: email,
		Subject: fmt.Sprintf("New Contact Form Message from %s", name),
		Body: fmt.Sprintf("You received a new message from your blog contact form.\n\nName: %s\nEmail: %s\n\nMessage:\n%s\n",
			name, email, message),
	}
}

func DeliveryTestMessage(to, blogName string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Test Email from %s", blogName),
		Body:    "This is a test email. If you received it, mail delivery is configured correctly.\n",
	}
}
