package handler

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/folio-dev/folio/backend/internal/service"
	"github.com/folio-dev/folio/shared/api"
	"github.com/folio-dev/folio/shared/errors"
	"github.com/folio-dev/folio/shared/logger"
	"github.com/folio-dev/folio/shared/middleware/metrics"
	"github.com/folio-dev/folio/shared/utils"
	"github.com/folio-dev/folio/shared/validation"
)

// Contact accepts the contact form. Every response is JSON {success, message};
// accepted submissions also carry notified.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeMethodNotAllowed).Inc()
		w.Header().Set("Allow", http.MethodPost)
		writeContactError(w, errors.MethodNotAllowed())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes())
	raw := parseContactForm(r)

	res, err := h.contact.Submit(r.Context(), raw)
	if err != nil {
		writeContactError(w, err)
		return
	}

	notified := res.Notified
	utils.WriteJSON(w, http.StatusOK, api.ContactResponse{
		Success:  true,
		Message:  res.Message,
		Notified: &notified,
	})
}

// parseContactForm reads the posted fields. A body that cannot be parsed
// (malformed or over the size cap) yields empty fields, which validation rejects.
func parseContactForm(r *http.Request) validation.RawContactInput {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(32 << 10)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		logger.Component("contact").Debug("unreadable form body", "error", err)
		return validation.RawContactInput{}
	}

	return validation.RawContactInput{
		Name:    r.PostForm.Get(api.FormName),
		Email:   r.PostForm.Get(api.FormEmail),
		Subject: r.PostForm.Get(api.FormSubject),
		Message: r.PostForm.Get(api.FormMessage),
		Privacy: r.PostForm.Get(api.FormPrivacy),
	}
}

func writeContactError(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if !stderrors.As(err, &e) {
		e = &errors.ErrorWithStatusCode{Message: service.StoreFailureMessage, StatusCode: http.StatusInternalServerError}
	}
	utils.WriteJSON(w, e.StatusCode, api.ContactResponse{Success: false, Message: e.Message})
}
