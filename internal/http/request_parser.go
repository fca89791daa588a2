// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON or form-encoded; both map onto the same field names.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/services"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month time.Month
}

// ParseMonthParams extracts year and month from query parameters, using now
// for missing values. Malformed or out-of-range values are rejected.
func ParseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	params := MonthParams{Year: now.Year(), Month: now.Month()}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			return MonthParams{}, fmt.Errorf("invalid year %q", v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return MonthParams{}, fmt.Errorf("invalid month %q", v)
		}
		params.Month = time.Month(m)
	}

	return params, nil
}

// ParseListQuery reads the list controls from the query string.
func ParseListQuery(query url.Values) services.ListQuery {
	return services.ListQuery{
		Search:   sanitizeInput(query.Get("search")),
		Category: strings.TrimSpace(query.Get("category")),
		Type:     strings.ToLower(strings.TrimSpace(query.Get("type"))),
		Sort:     services.ParseSortKey(query.Get("sort")),
	}
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]interface{})
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// TransactionForm maps the body onto a transaction form.
func (p *RequestBodyParser) TransactionForm() core.TransactionForm {
	return core.TransactionForm{
		Amount:      p.Get("amount"),
		Description: p.Get("description"),
		CategoryID:  p.Get("categoryId"),
		Date:        p.Get("date"),
		Type:        core.TransactionType(strings.ToLower(p.Get("type"))),
	}
}

// CategoryForm maps the body onto a category form.
func (p *RequestBodyParser) CategoryForm() core.CategoryForm {
	return core.CategoryForm{
		Name:  p.Get("name"),
		Color: p.Get("color"),
	}
}

// stringValue converts a decoded JSON value to string. Numbers keep their
// literal text so "12.50" and 12.50 parse alike.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// confirmed reports whether the client confirmed a destructive request via
// the X-Confirm header or a confirm query parameter.
func confirmed(r *http.Request) bool {
	for _, v := range []string{r.Header.Get("X-Confirm"), r.URL.Query().Get("confirm")} {
		if ok, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && ok {
			return true
		}
	}
	return false
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}
