package view

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Zachkp/portfolio/internal/contact"
)

type ContactFormData struct {
	SessionID  string
	Draft      contact.Draft
	Submitting bool
	// Errors maps a field name to its message.
	Errors map[string]string
}

// ContactForm posts through htmx and is replaced by the response.
func ContactForm(d ContactFormData) g.Node {
	label := "Send Message"
	if d.Submitting {
		label = "Sending..."
	}

	return g.El("form",
		ID("contact-form"),
		Class("contact-form"),
		g.Attr("method", "post"),
		g.Attr("action", "/contact"),
		g.Attr("hx-post", "/contact"),
		g.Attr("hx-target", "this"),
		g.Attr("hx-swap", "outerHTML"),
		Input(Type("hidden"), Name("session"), Value(d.SessionID)),
		Div(
			Class("form-row"),
			field(d, "name", "Name", "text", "Your name", d.Draft.Name),
			field(d, "email", "Email", "email", "your@email.com", d.Draft.Email),
		),
		field(d, "subject", "Subject", "text", "What's this about?", d.Draft.Subject),
		Div(
			Class("field"),
			g.El("label", g.Attr("for", "contact-message"), g.Text("Message")),
			Textarea(
				ID("contact-message"),
				Name("message"),
				g.Attr("rows", "5"),
				Placeholder("Tell me about your project..."),
				Required(),
				g.Text(d.Draft.Message),
			),
			fieldError(d.Errors["message"]),
		),
		Button(
			Type("submit"),
			ID("contact-submit"),
			Class("btn btn-primary"),
			g.If(d.Submitting, Disabled()),
			g.Text(label),
		),
	)
}

func field(d ContactFormData, name, label, typ, placeholder, value string) g.Node {
	id := "contact-" + name
	return Div(
		Class("field"),
		g.El("label", g.Attr("for", id), g.Text(label)),
		Input(ID(id), Name(name), Type(typ), Placeholder(placeholder), Value(value), Required()),
		fieldError(d.Errors[name]),
	)
}

func fieldError(msg string) g.Node {
	if msg == "" {
		return nil
	}
	return P(Class("field-error"), g.Text(msg))
}

// Toast replaces the page's toast region out of band.
func Toast(r contact.Result) g.Node {
	return Div(
		ID("toast"),
		Class("toast-region"),
		g.Attr("hx-swap-oob", "true"),
		Div(
			Class("toast"),
			g.Attr("role", "status"),
			Strong(g.Text(r.Title)),
			P(g.Text(r.Description)),
		),
	)
}
