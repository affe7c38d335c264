package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// EmailService sends optional notification mail. Without SMTP_HOST every send is a no-op.
type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	appURL       string

	enabled   bool
	templates map[string]*template.Template
	send      func(to, subject, body string) error
}

const EMAIL_SVC = "email_svc"

const (
	appName              = "Interview Genius"
	templateWelcome      = "welcome"
	templateTestComplete = "test_complete"
)

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")
	svc.appURL = os.Getenv("APP_URL")

	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = appName
	}
	if svc.appURL == "" {
		svc.appURL = "http://localhost:3000"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	if err := svc.loadTemplates(); err != nil {
		log.WithError(err).Error("Failed to load email templates")
	}
	svc.send = svc.sendEmail
	svc.enabled = svc.smtpHost != ""

	if !svc.enabled {
		log.Info("SMTP not configured, notification emails disabled")
	}
	return nil
}

// NewEmailService builds a service that hands rendered mail to send.
func NewEmailService(appURL string, send func(to, subject, body string) error) *EmailService {
	svc := &EmailService{enabled: true, fromName: appName, appURL: appURL, send: send}
	_ = svc.loadTemplates()
	return svc
}

func (svc *EmailService) Enabled() bool {
	return svc != nil && svc.enabled && svc.send != nil
}

const welcomeEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome to {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .button { display: inline-block; padding: 12px 24px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome to {{.AppName}}!</h1>
        </div>
        <div class="content">
            <h2>Hi {{.Name}},</h2>
            <p>Your account is ready. Pick a domain and level and take your first practice test.</p>
            <a href="{{.DashboardURL}}" class="button">Start Practicing</a>
            <p>Your AI coach is also available in the chat whenever you need interview advice.</p>
        </div>
        <div class="footer">
            <p>&copy; {{.AppName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

const testCompleteEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your {{.Domain}} test results - {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #059669; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .score { font-size: 32px; font-weight: bold; color: #059669; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Test Completed</h1>
        </div>
        <div class="content">
            <h2>Hi {{.Name}},</h2>
            <p>You finished a {{.Level}} {{.Domain}} test.</p>
            <p class="score">{{.Score}}%</p>
            <p>{{.CorrectAnswers}} of {{.TotalQuestions}} answers were correct. You scored better than {{.Percentile}}% of candidates.</p>
            {{if .Comment}}<p><em>{{.Comment}}</em></p>{{end}}
            {{if .Badges}}<p>New badges: {{range $i, $b := .Badges}}{{if $i}}, {{end}}{{$b}}{{end}}</p>{{end}}
            <p><a href="{{.ResultURL}}">View the full breakdown</a></p>
        </div>
        <div class="footer">
            <p>&copy; {{.AppName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

type WelcomeEmailData struct {
	AppName      string
	Name         string
	DashboardURL string
}

type TestCompleteEmailData struct {
	AppName        string
	Name           string
	Domain         string
	Level          string
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Percentile     int
	Comment        string
	Badges         []string
	ResultURL      string
}

func (svc *EmailService) loadTemplates() error {
	svc.templates = make(map[string]*template.Template)

	var err error
	svc.templates[templateWelcome], err = template.New(templateWelcome).Parse(welcomeEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse welcome email template: %v", err)
	}

	svc.templates[templateTestComplete], err = template.New(templateTestComplete).Parse(testCompleteEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse test result email template: %v", err)
	}

	return nil
}

func (svc *EmailService) SendWelcomeEmail(email, name string) error {
	if !svc.Enabled() {
		return nil
	}

	data := WelcomeEmailData{
		AppName:      appName,
		Name:         name,
		DashboardURL: svc.appURL + "/dashboard",
	}
	return svc.sendTemplateEmail(email, "Welcome to "+appName, templateWelcome, data)
}

func (svc *EmailService) SendTestResultEmail(email string, data TestCompleteEmailData) error {
	if !svc.Enabled() {
		return nil
	}

	data.AppName = appName
	if data.ResultURL == "" {
		data.ResultURL = svc.appURL + "/results"
	}
	subject := fmt.Sprintf("You scored %d%% on your %s test - %s", data.Score, data.Domain, appName)
	return svc.sendTemplateEmail(email, subject, templateTestComplete, data)
}

func (svc *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	tmpl, exists := svc.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	return svc.send(to, subject, body.String())
}

func (svc *EmailService) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		svc.fromName, svc.fromEmail, to, subject, body))

	err := smtp.SendMail(svc.smtpHost+":"+svc.smtpPort, auth, svc.fromEmail, []string{to}, msg)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("Email sent successfully")
	return nil
}
