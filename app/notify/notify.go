// Package notify delivers run reports to email, slack and webhook destinations
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"

	"github.com/threefoldtech/gridwatch/app/store"
)

// Params define which reports are sent and optional template files for them
type Params struct {
	EnabledError       bool
	EnabledCompletion  bool
	ErrorTemplate      string
	CompletionTemplate string
}

// SendersParams define destinations, a sender is made for each configured kind
type SendersParams struct {
	notify.SMTPParams
	FromEmail string
	ToEmails  []string

	SlackToken    string
	SlackChannels []string

	WebhookURLs    []string
	WebhookHeaders []string
	WebhookTimeout time.Duration
}

// Service sends reports to all configured destinations
type Service struct {
	Params
	destinations  []notify.Notifier
	fromEmail     string
	toEmail       []string
	slackChannels []string
	webhookURLs   []string
}

// Report is a run summary rendered by templates
type Report struct {
	RunID      string
	Trigger    string
	Host       string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []store.Result
}

// Failed returns failed results of the run
func (r Report) Failed() []store.Result {
	res := []store.Result{}
	for _, x := range r.Results {
		if x.Status == store.StatusFailed {
			res = append(res, x)
		}
	}
	return res
}

// Skipped returns skipped results of the run
func (r Report) Skipped() []store.Result {
	res := []store.Result{}
	for _, x := range r.Results {
		if x.Status == store.StatusSkipped {
			res = append(res, x)
		}
	}
	return res
}

// IsFailure reports whether the run failed. A run with nothing passed and skipped scenarios
// is a failure, it happens when host guard or grid proxy check rejects the run.
func (r Report) IsFailure() bool {
	skipped := r.Count(store.StatusSkipped)
	return len(r.Failed()) > 0 || (skipped > 0 && r.Count(store.StatusPassed) == 0)
}

// Count returns number of results with status
func (r Report) Count(status store.Status) int {
	n := 0
	for _, x := range r.Results {
		if x.Status == status {
			n++
		}
	}
	return n
}

// NewService makes notification service, returns nil if no destinations configured
func NewService(p Params, sp SendersParams) *Service {
	res := Service{Params: p, fromEmail: sp.FromEmail, toEmail: sp.ToEmails,
		slackChannels: sp.SlackChannels, webhookURLs: sp.WebhookURLs}

	if len(sp.ToEmails) > 0 {
		res.destinations = append(res.destinations, notify.NewEmail(sp.SMTPParams))
	}
	if sp.SlackToken != "" && len(sp.SlackChannels) > 0 {
		res.destinations = append(res.destinations, notify.NewSlack(sp.SlackToken))
	}
	if len(sp.WebhookURLs) > 0 {
		res.destinations = append(res.destinations, notify.NewWebhook(notify.WebhookParams{
			Timeout: sp.WebhookTimeout,
			Headers: sp.WebhookHeaders,
		}))
	}

	if len(res.destinations) == 0 {
		return nil
	}
	return &res
}

// IsOnError status enabling on-error notification
func (s *Service) IsOnError() bool { return s.EnabledError }

// IsOnCompletion status enabling on-completion notification
func (s *Service) IsOnCompletion() bool { return s.EnabledCompletion }

// Notify sends error report if the run failed and error notifications enabled,
// or completion report if it passed and completion notifications enabled
func (s *Service) Notify(ctx context.Context, r Report) error {
	failure := r.IsFailure()
	switch {
	case failure && s.IsOnError():
		html, err := s.MakeErrorHTML(r)
		if err != nil {
			return err
		}
		subj := fmt.Sprintf("gridwatch: %d of %d scenarios failed", len(r.Failed()), len(r.Results))
		if len(r.Failed()) == 0 {
			subj = fmt.Sprintf("gridwatch: run skipped, %d scenarios not executed", len(r.Skipped()))
		}
		return s.Send(ctx, subj, html, MakeText(r))
	case !failure && s.IsOnCompletion():
		html, err := s.MakeCompletionHTML(r)
		if err != nil {
			return err
		}
		subj := fmt.Sprintf("gridwatch: %d scenarios passed", r.Count(store.StatusPassed))
		return s.Send(ctx, subj, html, MakeText(r))
	}
	return nil
}

// Send delivers html to email recipients and subject with text to slack channels and webhooks
func (s *Service) Send(ctx context.Context, subj, html, text string) error {
	var errs []error
	for _, dest := range s.destinations {
		switch dest.Schema() {
		case "mailto":
			to := fmt.Sprintf("mailto:%s?from=%s&subject=%s", strings.Join(s.toEmail, ","), s.fromEmail, url.QueryEscape(subj))
			if err := dest.Send(ctx, to, html); err != nil {
				errs = append(errs, err)
			}
		case "slack":
			for _, ch := range s.slackChannels {
				if err := dest.Send(ctx, "slack:"+ch, subj+"\n"+text); err != nil {
					errs = append(errs, err)
				}
			}
		default: // webhook
			for _, u := range s.webhookURLs {
				if err := dest.Send(ctx, u, subj+"\n"+text); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}

// MakeErrorHTML renders failure report with custom template if set, default otherwise
func (s *Service) MakeErrorHTML(r Report) (string, error) {
	return s.render(s.ErrorTemplate, defaultErrorTemplate, r)
}

// MakeCompletionHTML renders completion report with custom template if set, default otherwise
func (s *Service) MakeCompletionHTML(r Report) (string, error) {
	return s.render(s.CompletionTemplate, defaultCompletionTemplate, r)
}

// MakeText renders short plain text summary with one line per failed or skipped scenario
func MakeText(r Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s: passed %d, failed %d, skipped %d", r.RunID,
		r.Count(store.StatusPassed), r.Count(store.StatusFailed), r.Count(store.StatusSkipped))
	for _, f := range r.Failed() {
		fmt.Fprintf(&sb, "\n%s %s: %s", f.Case, f.ScenarioID, f.Error)
	}
	for _, x := range r.Skipped() {
		fmt.Fprintf(&sb, "\n%s %s: skipped, %s", x.Case, x.ScenarioID, x.Error)
	}
	return sb.String()
}

func (s *Service) render(file, fallback string, r Report) (string, error) {
	data := struct {
		Report
		TS      time.Time
		Failed  []store.Result
		Skipped []store.Result
	}{Report: r, TS: time.Now(), Failed: r.Failed(), Skipped: r.Skipped()}

	tmpl := fallback
	if file != "" {
		b, err := os.ReadFile(file) //nolint:gosec // template file set by user
		if err != nil {
			log.Printf("[WARN] can't read template %s, using default: %v", file, err)
		} else {
			tmpl = string(b)
		}
	}

	html, err := execTemplate(tmpl, data)
	if err != nil && tmpl != fallback {
		log.Printf("[WARN] can't apply template %s, using default: %v", file, err)
		return execTemplate(fallback, data)
	}
	return html, err
}

func execTemplate(tmpl string, data any) (string, error) {
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("can't parse message template: %w", err)
	}
	buf := bytes.Buffer{}
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to apply template: %w", err)
	}
	return buf.String(), nil
}

const reportStyle = `<style type="text/css">
			body {
				font-family: "Arial";
				font-size: 1.0em;
			}
			ul {
				margin-top: -0.5em;
				margin-left: -0.5em;
			}
			pre {
				padding: 0.6em;
				font-size: 0.7em;
				background-color: #E8E2A0;
				font-family: "Menlo";
				overflow-x: auto;
				white-space: pre-wrap;
				word-wrap: break-word;
			}
			.bold {
				color: #882828;
				font-weight: 900;
			}
		</style>`

const defaultErrorTemplate = `<!DOCTYPE html>
<html>
	<head>
		<meta name="viewport" content="width=device-width" />
		<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
		` + reportStyle + `
	</head>
	<body>
		<p>Gridwatch run <span class="bold">{{.RunID}}</span> failed on <span class="bold">{{.Host}}</span> at {{.TS.Format "2006-01-02T15:04:05Z07:00"}}</p>
		<ul>
		{{- range .Failed}}
			<li>{{.Case}} {{.Name}}: <span class="bold">{{.ScenarioID}}</span>
				<pre>{{.Error}}</pre>
			</li>
		{{- end}}
		{{- range .Skipped}}
			<li>{{.Case}} {{.Name}}: <span class="bold">{{.ScenarioID}}</span> skipped
				<pre>{{.Error}}</pre>
			</li>
		{{- end}}
		</ul>
	</body>
</html>
`

const defaultCompletionTemplate = `<!DOCTYPE html>
<html>
	<head>
		<meta name="viewport" content="width=device-width" />
		<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
		` + reportStyle + `
	</head>
	<body>
		<p>Gridwatch run <span class="bold">{{.RunID}}</span> completed on <span class="bold">{{.Host}}</span> at {{.TS.Format "2006-01-02T15:04:05Z07:00"}}</p>
		<ul>
		{{- range .Results}}
			<li>{{.Case}} {{.Name}}: <span class="bold">{{.Status}}</span></li>
		{{- end}}
		</ul>
	</body>
</html>
`
