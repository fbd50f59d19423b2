package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/diagnosis/luxury-stays/pkg/events"
)

// Message is a rendered email. Templates fill everything but the
// recipient, which the sender decides.
type Message struct {
	To          string
	ToName      string
	ReplyTo     string
	ReplyToName string
	Subject     string
	Text        string
	HTML        string
	Tags        []string
}

func InquiryMessage(site string, e events.InquiryReceivedEvent) Message {
	kind := "Contact inquiry"
	if e.Kind == "owner" {
		kind = "Property management inquiry"
	}
	subject := fmt.Sprintf("[%s] %s from %s", site, kind, e.Name)
	if e.Subject != "" {
		subject += ": " + e.Subject
	}

	rows := [][2]string{
		{"Name", e.Name},
		{"Email", e.Email},
		{"Phone", e.Phone},
		{"Property address", e.Address},
		{"Received", e.CreatedAt.Format("2006-01-02 15:04 MST")},
	}
	return Message{
		ReplyTo:     e.Email,
		ReplyToName: e.Name,
		Subject:     subject,
		Text:        textRows(rows) + "\n" + e.Message + "\n",
		HTML:        htmlRows(rows) + "<p>" + strings.ReplaceAll(html.EscapeString(e.Message), "\n", "<br>") + "</p>",
		Tags:        []string{"inquiry", e.Kind},
	}
}

func ReservationMessage(site string, e events.ReservationConfirmedEvent) Message {
	code := e.ConfirmationCode
	if code == "" {
		code = e.ReservationID
	}
	rows := [][2]string{
		{"Confirmation", code},
		{"Property", e.ListingName},
		{"Check-in", e.CheckIn},
		{"Check-out", e.CheckOut},
		{"Guests", fmt.Sprintf("%d", e.Guests)},
		{"Guest", e.GuestName},
		{"Guest email", e.GuestEmail},
		{"Total", fmt.Sprintf("%.2f %s", e.Total, e.Currency)},
	}
	return Message{
		ReplyTo:     e.GuestEmail,
		ReplyToName: e.GuestName,
		Subject:     fmt.Sprintf("[%s] New reservation %s at %s", site, code, e.ListingName),
		Text:        textRows(rows),
		HTML:        htmlRows(rows),
		Tags:        []string{"reservation"},
	}
}

func textRows(rows [][2]string) string {
	var b strings.Builder
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", r[0], r[1])
	}
	return b.String()
}

func htmlRows(rows [][2]string) string {
	var b strings.Builder
	b.WriteString("<table>")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", r[0], html.EscapeString(r[1]))
	}
	b.WriteString("</table>")
	return b.String()
}
