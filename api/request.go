package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-api/errs"
)

const maxJSONBody = 1 << 20

// decodeJSONObject reads the request body as a JSON object. An empty body
// yields an empty map so that validation can name every missing field.
func decodeJSONObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errs.NewInvalidJSONError(err)
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// seqParam parses the public project id. ok is false for anything that is
// not a positive integer.
func seqParam(r *http.Request) (int, bool) {
	seq, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// projectFormInput collects the text fields of a multipart project form.
func projectFormInput(form *multipart.Form) map[string]any {
	input := map[string]any{}
	if form == nil {
		return input
	}

	for _, key := range []string{"title", "category", "description"} {
		if v := form.Value[key]; len(v) > 0 {
			input[key] = v[0]
		}
	}

	if v := form.Value["client"]; len(v) > 0 {
		input["client"] = looseJSON(v[0])
	}

	techs := append(append([]string{}, form.Value["technologies"]...), form.Value["technologies[]"]...)
	switch len(techs) {
	case 0:
	case 1:
		input["technologies"] = splitList(techs[0])
	default:
		input["technologies"] = techs
	}

	return input
}

// looseJSON decodes s when it holds a JSON object or array and returns it
// unchanged otherwise.
func looseJSON(s string) any {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	return s
}

// splitList accepts a JSON array of strings or a comma separated list.
func splitList(s string) []string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			return items
		}
	}
	return strings.Split(trimmed, ",")
}

// fieldErrors extracts the per-field failures carried by err.
func fieldErrors(err error) []errs.FieldError {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
