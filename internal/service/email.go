package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"portfolio-access-backend/internal/domain"
	"portfolio-access-backend/internal/logger"
)

type emailService struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	ownerEmail string
	baseURL    string
}

func NewEmailService(host string, port int, username, password, from, ownerEmail, baseURL string) EmailService {
	return &emailService{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		ownerEmail: ownerEmail,
		baseURL:    baseURL,
	}
}

func (s *emailService) NotifyOwnerOfRequest(ctx context.Context, req *domain.AccessRequest) error {
	body := fmt.Sprintf(`<h2>New Portfolio Access Request</h2>
<p><strong>Request ID:</strong> %s</p>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Company:</strong> %s</p>
<p><strong>Reason:</strong> %s</p>
<p><strong>Other Reason:</strong> %s</p>
<p><strong>Timestamp:</strong> %s</p>
<p><strong>IP Address:</strong> %s</p>
<p><strong>User Agent:</strong> %s</p>
<hr>
<p><strong>To approve this request:</strong></p>
<p>Click this link: <a href="%s/api/approve-request/%s">Approve Request</a></p>
<p><strong>To decline this request:</strong></p>
<p>Click this link: <a href="%s/api/decline-request/%s">Decline Request</a></p>`,
		req.ID,
		req.Name,
		req.Email,
		orDefault(req.Company, "Not provided"),
		req.Reason,
		orDefault(req.OtherReason, "N/A"),
		req.Timestamp.Format(time.RFC1123),
		req.IP,
		req.UserAgent,
		s.baseURL, req.ID,
		s.baseURL, req.ID,
	)

	return s.send(ctx, "owner-approval-request", s.ownerEmail,
		"Portfolio Access Request - Action Required", body)
}

func (s *emailService) NotifyRequesterApproved(ctx context.Context, req *domain.AccessRequest, password string, expiresAt time.Time) error {
	body := fmt.Sprintf(`<h2>Portfolio Access Granted</h2>
<p>Hello %s,</p>
<p>Your request for portfolio access has been approved.</p>
<p><strong>Temporary Password:</strong> %s</p>
<p><strong>Expires:</strong> %s</p>
<p>This password will expire automatically for security purposes.</p>
<p>Best regards,<br>Melissa Casole</p>`,
		req.Name, password, expiresAt.Format(time.RFC1123))

	return s.send(ctx, "requester-approved", req.Email, "Portfolio Access Granted", body)
}

func (s *emailService) NotifyRequesterDeclined(ctx context.Context, req *domain.AccessRequest) error {
	body := fmt.Sprintf(`<h2>Portfolio Access Request</h2>
<p>Hello %s,</p>
<p>Thank you for your interest in my portfolio. Unfortunately, I am unable to grant access at this time.</p>
<p>If you have any questions, please feel free to reach out directly.</p>
<p>Best regards,<br>Melissa Casole</p>`,
		req.Name)

	return s.send(ctx, "requester-declined", req.Email, "Portfolio Access Request - Update", body)
}

func (s *emailService) SendTestEmail(ctx context.Context) error {
	body := "<h2>Test Email</h2><p>This is a test email to verify the email configuration is working.</p>"
	return s.send(ctx, "diagnostic", s.ownerEmail, "Test Email from Portfolio", body)
}

// send delivers one message. There is no retry and no timeout beyond what the
// SMTP dial itself imposes; a slow provider stalls the caller.
func (s *emailService) send(ctx context.Context, kind, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	logger.MailCall(kind, to)
	err := d.DialAndSend(m)
	logger.MailResult(kind, to, err)
	if err != nil {
		return fmt.Errorf("failed to send %s email via gomail: %w", kind, err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
