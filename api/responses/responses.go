package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// WriteJSON writes payload with the given status. Only the health probes speak JSON.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}

// RenderHTML writes a rendered page with the given status.
func RenderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		log.Printf(`{"level":"error","msg":"failed to render page","err":"%v"}`, err)
	}
}

// Redirect answers with 303 See Other. Flashes still pending on the request
// are carried over so they survive a redirect chain.
func Redirect(w http.ResponseWriter, r *http.Request, location string, flashes ...Flash) {
	pending := append(PeekFlashes(r), flashes...)
	if len(pending) > 0 {
		setFlashCookie(w, pending)
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// PublicMessage returns the text a user may see for err.
func PublicMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}

// StatusFor maps err to its HTTP status.
func StatusFor(err error) int {
	return pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus
}

// WriteError logs err and renders the standalone error page.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	status := StatusFor(err)
	msg := PublicMessage(err)

	if logg != nil {
		fields := pkgerrors.Dump(err).Fields()
		fields["status"] = status
		ctx = logg.WithFields(ctx, fields)
		if status >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	RenderHTML(w, status, errorPage(status, msg))
}

func errorPage(status int, message string) gomponents.Node {
	title := http.StatusText(status)
	if title == "" {
		title = "Error"
	}
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(gomponents.Text(title+" | Pet Adoption")),
		),
		Body(
			Main(Class("error-page"),
				H1(gomponents.Text(strconv.Itoa(status)+" "+title)),
				P(Class("error"), gomponents.Text(message)),
				A(Href("/"), gomponents.Text("Back to home")),
			),
		),
	)
}
