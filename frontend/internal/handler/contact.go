package handler

import (
	"html"
	"net/http"

	"github.com/folio-dev/folio/frontend/internal/contactform"
	"github.com/folio-dev/folio/shared/api"
	"github.com/folio-dev/folio/shared/domain"
	"github.com/folio-dev/folio/shared/validation"
)

const submitLabel = "Envoyer"

// pageNotice is the rendered outcome banner.
type pageNotice struct {
	Kind    string
	Message string
}

// pageView renders the controller's decisions into the contact page.
type pageView struct {
	Values        contactform.Form
	Errors        map[string]string
	Counter       int
	SubmitEnabled bool
	SubmitLabel   string
	Notice        *pageNotice
	Scroll        bool
}

func newPageView(form contactform.Form) *pageView {
	return &pageView{
		Values:        form,
		Errors:        map[string]string{},
		SubmitEnabled: true,
		SubmitLabel:   submitLabel,
	}
}

func (v *pageView) SetFieldError(field domain.Field, msg string) {
	if msg == "" {
		delete(v.Errors, string(field))
		return
	}
	v.Errors[string(field)] = msg
}

func (v *pageView) ClearErrors()                  { v.Errors = map[string]string{} }
func (v *pageView) SetCounter(n int)              { v.Counter = n }
func (v *pageView) SetSubmitEnabled(enabled bool) { v.SubmitEnabled = enabled }
func (v *pageView) SetSubmitLabel(label string)   { v.SubmitLabel = label }
func (v *pageView) ResetForm()                    { v.Values = contactform.Form{} }
func (v *pageView) ScrollToNotice()               { v.Scroll = true }

func (v *pageView) ShowNotice(kind contactform.NoticeKind, msg string) {
	class := "error"
	if kind == contactform.NoticeSuccess {
		class = "success"
	}
	// API messages are pre-escaped for innerHTML; the template escapes again.
	v.Notice = &pageNotice{Kind: class, Message: html.UnescapeString(msg)}
}

func (h *Handler) ContactGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "contact.html", http.StatusOK, newPageView(contactform.Form{}))
}

// ContactPostHandler runs the form controller server-side for browsers without
// JavaScript and renders the resulting page.
func (h *Handler) ContactPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := contactform.Form{
		Name:    r.PostForm.Get(api.FormName),
		Email:   r.PostForm.Get(api.FormEmail),
		Subject: r.PostForm.Get(api.FormSubject),
		Message: r.PostForm.Get(api.FormMessage),
		Privacy: validation.IsChecked(r.PostForm.Get(api.FormPrivacy)),
	}

	view := newPageView(form)
	controller := contactform.New(view, h.Submitter, submitLabel)
	controller.OnInput(form.Message)

	state, _ := controller.Submit(r.Context(), form)

	status := http.StatusOK
	switch state {
	case contactform.Invalid:
		status = http.StatusUnprocessableEntity
	case contactform.Error:
		status = http.StatusBadGateway
	}
	h.renderTemplate(w, r, "contact.html", status, view)
}
