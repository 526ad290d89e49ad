// Package helpers contiene utilidades HTTP compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
)

// MaxBodySize es el límite por defecto para bodies JSON (64KB).
const MaxBodySize = 64 * 1024

// ReadJSON valida Content-Type, limita el body y decodifica en v. Campos
// desconocidos se toleran; body vacío es error. Devuelve un *AppError listo
// para WriteError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) *httperrors.AppError {
	return readJSON(w, r, v, false)
}

// ReadOptionalJSON es como ReadJSON pero un body vacío no es error (v queda
// en su zero value).
func ReadOptionalJSON(w http.ResponseWriter, r *http.Request, v any) *httperrors.AppError {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	return readJSON(w, r, v, true)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) *httperrors.AppError {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "application/json") {
		return httperrors.ErrUnsupportedMediaType
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return httperrors.ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			if optional {
				return nil
			}
			return httperrors.ErrInvalidJSON.WithDetail("body vacío")
		default:
			return httperrors.ErrInvalidJSON.WithCause(err)
		}
	}
	return nil
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RequireMethod responde 405 con Allow si r.Method no es method.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	return false
}
