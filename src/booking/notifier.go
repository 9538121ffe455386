package booking

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"salonbook/src/lib/mailer"
	"salonbook/src/models"
	"salonbook/src/types"
	"time"

	"go.uber.org/zap"
)

type Notifier interface {
	ReservationCreated(ctx context.Context, r *models.Reservation) error
	ReservationDecided(ctx context.Context, r *models.Reservation) error
}

type NopNotifier struct{}

func (NopNotifier) ReservationCreated(ctx context.Context, r *models.Reservation) error { return nil }
func (NopNotifier) ReservationDecided(ctx context.Context, r *models.Reservation) error { return nil }

const notifyTimeout = 30 * time.Second

// notifyAsync sends r after the request is done. Failures are logged only.
func (e *Engine) notifyAsync(ctx context.Context, r *models.Reservation, send func(context.Context, *models.Reservation) error) {
	if _, ok := e.notifier.(NopNotifier); ok {
		return
	}
	base := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(base, notifyTimeout)
		defer cancel()
		if err := send(ctx, r); err != nil {
			zap.S().Errorf("Error sending notification for reservation %d: %s", r.ID, err.Error())
		}
	}()
}

// MailNotifier renders the reservation emails and hands them to a Mailer.
type MailNotifier struct {
	mailer mailer.Mailer
	appURL string
}

func NewMailNotifier(m mailer.Mailer, appURL string) *MailNotifier {
	return &MailNotifier{mailer: m, appURL: appURL}
}

type mailView struct {
	R         *models.Reservation
	ManageURL string
	Approve   string
	Reject    string
	Cancel    string
}

// ManageURL is the customer-facing page for the reservation behind token.
func ManageURL(appURL, token string) string {
	return fmt.Sprintf("%s/reservation/manage/%s", appURL, token)
}

func (n *MailNotifier) view(r *models.Reservation) mailView {
	v := mailView{R: r}
	if r.ManagementToken != nil {
		v.ManageURL = ManageURL(n.appURL, *r.ManagementToken)
		v.Approve = v.ManageURL + "?action=" + ACTION_APPROVE
		v.Reject = v.ManageURL + "?action=" + ACTION_REJECT
		v.Cancel = v.ManageURL + "?action=" + ACTION_CANCEL
	}
	return v
}

// ReservationCreated confirms receipt to the customer and asks the worker to
// approve or reject.
func (n *MailNotifier) ReservationCreated(ctx context.Context, r *models.Reservation) error {
	v := n.view(r)
	body, err := render(customerConfirmationTmpl, v)
	if err != nil {
		return err
	}
	err = n.mailer.Send(ctx, &mailer.Message{
		To:      []string{r.CustomerEmail},
		Subject: fmt.Sprintf("Reservation received for %s at %s", r.Date, r.StartTime),
		Body:    body,
		Html:    true,
	})
	if err != nil {
		return err
	}

	if r.Worker == nil || r.Worker.Inbox() == "" {
		zap.S().Warnf("Worker %d has no email; skipping approval request for reservation %d", r.WorkerID, r.ID)
		return nil
	}
	body, err = render(approvalRequestTmpl, v)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, &mailer.Message{
		To:      []string{r.Worker.Inbox()},
		ReplyTo: r.CustomerEmail,
		Subject: fmt.Sprintf("New reservation: %s, %s %s", r.CustomerName, r.Date, r.StartTime),
		Body:    body,
		Html:    true,
	})
}

func (n *MailNotifier) ReservationDecided(ctx context.Context, r *models.Reservation) error {
	var subject string
	var tmpl *template.Template
	switch r.Status {
	case types.RESERVATION_CONFIRMED:
		subject = fmt.Sprintf("Reservation confirmed for %s at %s", r.Date, r.StartTime)
		tmpl = approvedTmpl
	case types.RESERVATION_CANCELLED:
		subject = fmt.Sprintf("Reservation for %s at %s was cancelled", r.Date, r.StartTime)
		tmpl = cancelledTmpl
	default:
		return nil
	}
	body, err := render(tmpl, n.view(r))
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, &mailer.Message{
		To:      []string{r.CustomerEmail},
		Subject: subject,
		Body:    body,
		Html:    true,
	})
}

func render(t *template.Template, v mailView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
