package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"bookstore/internal/config"
	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const confirmationTemplate = `Hello {{.CustomerName}},

Thank you for your order {{.OrderID}}.

{{range .Lines}}- {{.Title}} x {{.Quantity}}: {{amount .LineTotal}}
{{end}}
Subtotal: {{amount .Subtotal}}
{{if .PromotionCode}}Discount ({{.PromotionCode}}): -{{amount .DiscountAmount}}
{{end}}Total: {{amount .Total}}

Payment: cash on delivery
Shipping to: {{.ShippingAddress}}
`

// sender is the part of the go-mail client the notifier needs.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type smtpNotifier struct {
	client   sender
	from     string
	fromName string
	tmpl     *template.Template
	logger   zerolog.Logger
}

type confirmationLine struct {
	Title     string
	Quantity  int
	LineTotal int64
}

type confirmationView struct {
	OrderID         string
	CustomerName    string
	ShippingAddress string
	PromotionCode   string
	Lines           []confirmationLine
	Subtotal        int64
	DiscountAmount  int64
	Total           int64
}

// NewSMTPNotifier creates a notifier that mails a plain-text confirmation
// through the configured relay. Amounts are formatted for locale.
func NewSMTPNotifier(cfg config.SMTPConfig, locale string, logger zerolog.Logger) (Notifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client (host=%s port=%d): %w", cfg.Host, cfg.Port, err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("SMTP notifier initialised")

	return newSMTPNotifier(client, cfg.FromName, cfg.FromEmail, locale, logger)
}

func newSMTPNotifier(client sender, fromName, fromEmail, locale string, logger zerolog.Logger) (*smtpNotifier, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	printer := message.NewPrinter(tag)

	tmpl, err := template.New("confirmation").Funcs(template.FuncMap{
		"amount": func(v int64) string { return printer.Sprintf("%d", v) },
	}).Parse(confirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	return &smtpNotifier{
		client:   client,
		from:     fromEmail,
		fromName: fromName,
		tmpl:     tmpl,
		logger:   logger.With().Str("component", "smtp-notifier").Logger(),
	}, nil
}

// OrderPlaced mails the confirmation. Orders without a customer email are skipped.
func (n *smtpNotifier) OrderPlaced(ctx context.Context, order *model.OrderResponse) error {
	if order.CustomerEmail == "" {
		n.logger.Debug().Str("order_id", order.ID.String()).Msg("no customer email, confirmation skipped")
		return nil
	}

	body, err := n.render(order)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(n.fromName, n.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(order.CustomerEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("Order %s confirmed", order.ID))
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		n.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to send order confirmation")
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	n.logger.Info().Str("order_id", order.ID.String()).Msg("order confirmation sent")
	return nil
}

func (n *smtpNotifier) render(order *model.OrderResponse) (string, error) {
	titles := make(map[string]string, len(order.Books))
	for _, b := range order.Books {
		titles[b.ID] = b.Title
	}

	view := confirmationView{
		OrderID:         order.ID.String(),
		CustomerName:    order.CustomerName,
		ShippingAddress: order.ShippingAddress,
		Subtotal:        order.Subtotal,
		DiscountAmount:  order.DiscountAmount,
		Total:           order.Total,
	}
	if order.PromotionCode != nil {
		view.PromotionCode = *order.PromotionCode
	}
	for _, item := range order.Items {
		title, ok := titles[item.BookID]
		if !ok {
			title = item.BookID
		}
		view.Lines = append(view.Lines, confirmationLine{
			Title:     title,
			Quantity:  item.Quantity,
			LineTotal: item.UnitPrice * int64(item.Quantity),
		})
	}

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render order confirmation: %w", err)
	}
	return buf.String(), nil
}
