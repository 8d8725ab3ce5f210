package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/util"
	"portfolio/pkg/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site is the branding shown on the page.
type Site struct {
	Header     string
	Title      string
	IndexTitle string
}

type pageContext struct {
	Site Site
	app.Page
}

func (s *Server) parseTemplates() (*template.Template, error) {
	return template.New("portfolio.html").Funcs(template.FuncMap{
		"media":        s.app.MediaURL,
		"technologies": domain.ParseTechnologies,
		"monthYear":    monthYear,
		"year":         func() int { return time.Now().Year() },
	}).ParseFS(templateFS, "templates/portfolio.html")
}

func monthYear(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("Jan 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("Jan 2006")
	}
	return ""
}

// handleHome renders the portfolio page. When content cannot be assembled
// or rendered, the same template is rendered with an empty context and the
// response is marked uncacheable.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	logger := util.LoggerFromContext(r.Context())
	page, err := s.app.Home(r.Context())
	if err == nil {
		body, renderErr := s.renderPage(page)
		if renderErr == nil {
			writeHTML(w, http.StatusOK, body)
			return
		}
		err = renderErr
	}
	logger.Error("portfolio page degraded", "err", err)

	body, err := s.renderPage(app.Page{})
	if err != nil {
		logger.Error("portfolio page render failed", "err", err)
		w.Header().Set("Cache-Control", "no-store")
		http.Error(w, serverErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeHTML(w, http.StatusOK, body)
}

func (s *Server) renderPage(page app.Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, pageContext{Site: s.site, Page: page}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
