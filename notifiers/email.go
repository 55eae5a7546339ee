package notifiers

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"text/template"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/models"
)

//go:embed templates/match.html templates/digest.html
var emailTemplates embed.FS

var matchTemplates = template.Must(template.New("emails").ParseFS(emailTemplates, "templates/*.html"))

type Mailer struct {
	smtpHost string
	smtpPort string
	from     string
	password string
	appBase  string
}

func NewMailer(smtpHost, smtpPort, from, password, appBase string) *Mailer {
	return &Mailer{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		from:     from,
		password: password,
		appBase:  strings.TrimRight(appBase, "/"),
	}
}

type matchItem struct {
	Title    string
	URL      string
	Platform string
	District string
	Rent     string
	Rooms    string
	Size     string
	Score    int
}

func (h *Mailer) MatchEmail(email string, match data.MatchWithListing) (models.Email, error) {
	var buf bytes.Buffer
	tmplData := struct {
		Match      matchItem
		MatchesURL string
	}{
		Match:      toMatchItem(match),
		MatchesURL: h.matchesURL(),
	}
	if err := matchTemplates.ExecuteTemplate(&buf, "match.html", tmplData); err != nil {
		return models.Email{}, fmt.Errorf("render match template: %w", err)
	}

	return models.Email{
		To:      email,
		Subject: "wohnmatch: new listing for you",
		Body:    buf.String(),
	}, nil
}

func (h *Mailer) DigestEmail(email string, matches []data.MatchWithListing) (models.Email, error) {
	if len(matches) == 0 {
		return models.Email{}, fmt.Errorf("no matches")
	}

	items := make([]matchItem, 0, 10)
	for _, match := range matches {
		if len(items) >= 10 {
			break
		}
		items = append(items, toMatchItem(match))
	}

	remaining := len(matches) - len(items)

	var buf bytes.Buffer
	tmplData := struct {
		Items      []matchItem
		Total      int
		Remaining  int
		MatchesURL string
	}{
		Items:      items,
		Total:      len(matches),
		Remaining:  remaining,
		MatchesURL: h.matchesURL(),
	}
	if err := matchTemplates.ExecuteTemplate(&buf, "digest.html", tmplData); err != nil {
		return models.Email{}, fmt.Errorf("render digest template: %w", err)
	}

	return models.Email{
		To:      email,
		Subject: fmt.Sprintf("wohnmatch: %d new listings for you", len(matches)),
		Body:    buf.String(),
	}, nil
}

func (h *Mailer) Send(mail models.Email) error {
	message := fmt.Sprintf(`From: wohnmatch <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, h.from, mail.To, mail.Subject, mail.Body)

	auth := smtp.PlainAuth("", h.from, h.password, h.smtpHost)
	addr := fmt.Sprintf("%s:%s", h.smtpHost, h.smtpPort)
	err := smtp.SendMail(addr, auth, h.from, []string{mail.To}, []byte(message))
	if err != nil {
		slog.Error("Failed to send email", "error", err)
		return err
	}

	slog.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}

func toMatchItem(match data.MatchWithListing) matchItem {
	item := matchItem{
		Title:    match.Title,
		URL:      match.URL,
		Platform: string(match.Platform),
		District: match.District.String,
		Score:    match.Score,
	}

	switch {
	case match.WarmRent.Valid:
		item.Rent = fmt.Sprintf("%d € warm", match.WarmRent.Int64)
	case match.Price > 0:
		item.Rent = fmt.Sprintf("%d € kalt", match.Price)
	default:
		item.Rent = "price on request"
	}

	if match.Rooms.Valid {
		item.Rooms = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", match.Rooms.Float64), "0"), ".")
	}
	if match.SizeSqm.Valid {
		item.Size = fmt.Sprintf("%.0f m²", match.SizeSqm.Float64)
	}

	return item
}

func (h *Mailer) matchesURL() string {
	if h.appBase == "" {
		return ""
	}
	return h.appBase + "/matches"
}
