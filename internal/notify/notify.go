package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/restaurant-hours/backend/internal/config"
	"github.com/restaurant-hours/backend/internal/ingest"
	"github.com/wneessen/go-mail"
)

var reportTemplate = template.Must(template.New("ingest_report").Parse(`Batch {{.BatchID}} finished in {{.Mode}} mode.

Rows:            {{.Summary.Rows}}
Persisted:       {{.Summary.Persisted}}
Windows created: {{.Summary.WindowsCreated}}
Failures:        {{len .Summary.Failures}}
{{range .Summary.Failures}}
  line {{.Line}} {{printf "%q" .Name}}: {{.Error}}{{end}}
`))

type reportData struct {
	BatchID string
	Mode    ingest.Mode
	Summary ingest.Summary
}

func RenderIngestReport(batchID string, mode ingest.Mode, summary ingest.Summary) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, reportData{BatchID: batchID, Mode: mode, Summary: summary}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Mailer is the part of *mail.Client the sender needs.
type Mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Sender struct {
	client Mailer
	from   string
}

func NewSender(client Mailer, from string) *Sender {
	return &Sender{client: client, from: from}
}

// NewClient builds an SMTP client from the SMTP config group.
func NewClient(cfg *config.Config) (*mail.Client, error) {
	return mail.NewClient(cfg.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.SMTP.Port),
		mail.WithUsername(cfg.SMTP.Username),
		mail.WithPassword(cfg.SMTP.Password),
		mail.WithTimeout(time.Duration(cfg.SMTP.DialTimeout)*time.Second),
	)
}

func (s *Sender) SendIngestReport(ctx context.Context, to, batchID string, mode ingest.Mode, summary ingest.Summary) error {
	body, err := RenderIngestReport(batchID, mode, summary)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("Hours import %s: %d of %d rows failed", batchID, len(summary.Failures), summary.Rows))
	msg.SetBodyString(mail.TypeTextPlain, body)

	return s.client.DialAndSendWithContext(ctx, msg)
}
