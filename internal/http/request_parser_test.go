package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/services"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     url.Values
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{
			name:      "both values provided",
			query:     url.Values{"year": {"2024"}, "month": {"12"}},
			wantYear:  2024,
			wantMonth: time.December,
		},
		{
			name:      "only year",
			query:     url.Values{"year": {"2023"}},
			wantYear:  2023,
			wantMonth: time.March,
		},
		{
			name:      "only month",
			query:     url.Values{"month": {"5"}},
			wantYear:  2026,
			wantMonth: time.May,
		},
		{
			name:      "empty uses now",
			query:     url.Values{},
			wantYear:  2026,
			wantMonth: time.March,
		},
		{
			name:    "month out of range",
			query:   url.Values{"month": {"13"}},
			wantErr: true,
		},
		{
			name:    "non-numeric year",
			query:   url.Values{"year": {"abc"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMonthParams(tt.query, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Year != tt.wantYear || result.Month != tt.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", result.Year, result.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParseListQuery(t *testing.T) {
	q := ParseListQuery(url.Values{
		"search":   {"  pizza\x00 "},
		"category": {" c-food "},
		"type":     {"EXPENSE"},
		"sort":     {"amount"},
	})

	if q.Search != "pizza" {
		t.Errorf("Search = %q, want %q", q.Search, "pizza")
	}
	if q.Category != "c-food" {
		t.Errorf("Category = %q", q.Category)
	}
	if q.Type != "expense" {
		t.Errorf("Type = %q", q.Type)
	}
	if q.Sort != services.SortByAmount {
		t.Errorf("Sort = %q", q.Sort)
	}

	if got := ParseListQuery(url.Values{"sort": {"bogus"}}).Sort; got != services.SortByDate {
		t.Errorf("unknown sort = %q, want date", got)
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"amount": 42.50, "description": " Lunch ", "categoryId": "c1", "date": "2026-03-01", "type": "Income"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}

	form := parser.TransactionForm()
	want := core.TransactionForm{
		Amount:      "42.50",
		Description: "Lunch",
		CategoryID:  "c1",
		Date:        "2026-03-01",
		Type:        core.Income,
	}
	if form != want {
		t.Errorf("TransactionForm() = %+v, want %+v", form, want)
	}
	if got := parser.Get("missing"); got != "" {
		t.Errorf("Get('missing') = %q, want empty", got)
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "name=Groceries&color=%2322c55e"
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false")
	}

	form := parser.CategoryForm()
	if form.Name != "Groceries" || form.Color != "#22c55e" {
		t.Errorf("CategoryForm() = %+v", form)
	}
}

func TestRequestBodyParser_EmptyAndInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/categories", nil)
	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("empty body: %v", err)
	}
	if got := parser.Get("name"); got != "" {
		t.Errorf("Get on empty body = %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name": `))
	parser = NewRequestBodyParser(req)
	if err := parser.Parse(); err == nil {
		t.Error("expected error for truncated JSON")
	}
	// Parse is idempotent
	if err := parser.Parse(); err == nil {
		t.Error("expected cached error on second Parse")
	}
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{"text", "text"},
		{12.5, "12.5"},
		{true, "true"},
		{nil, ""},
		{[]string{"x"}, ""},
	}
	for _, tt := range tests {
		if got := stringValue(tt.in); got != tt.want {
			t.Errorf("stringValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfirmed(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   bool
	}{
		{"no confirmation", "/transactions/1", "", false},
		{"query true", "/transactions/1?confirm=true", "", true},
		{"query false", "/transactions/1?confirm=false", "", false},
		{"header", "/transactions/1", "true", true},
		{"garbage", "/transactions/1?confirm=yes", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Confirm", tt.header)
			}
			if got := confirmed(req); got != tt.want {
				t.Errorf("confirmed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	if resp := RequireMethod(req, http.MethodGet); resp != nil {
		t.Error("GET should be allowed")
	}

	req = httptest.NewRequest(http.MethodPost, "/stats", nil)
	resp := RequireMethod(req, http.MethodGet, http.MethodHead)
	if resp == nil {
		t.Fatal("POST should be rejected")
	}
	w := httptest.NewRecorder()
	resp.Write(w)
	if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != "GET, HEAD" {
		t.Errorf("got %d Allow=%q", w.Code, w.Header().Get("Allow"))
	}
}
