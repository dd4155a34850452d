package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/folio-dev/folio/frontend/internal/middleware"
	"github.com/folio-dev/folio/shared/logger"
)

// CommonTemplateData holds fields that are common to all page templates.
type CommonTemplateData struct {
	CSRFToken string
}

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	tmpl, ok := h.Templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	wrapped := TemplateData{
		Data:   data,
		Common: CommonTemplateData{CSRFToken: middleware.GetCSRFTokenFromContext(r)},
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
