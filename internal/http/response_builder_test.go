package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder_Default(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("Unexpected HX-Trigger: %s", w.Header().Get("HX-Trigger"))
	}
	if w.Body.Len() != 0 {
		t.Errorf("Unexpected body: %q", w.Body.String())
	}
}

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]string{"id": "abc"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got["id"] != "abc" {
		t.Errorf("body = %v", got)
	}
}

func TestResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().
		TriggerCategoriesChanged().
		TriggerSuccessNotification("Category added").
		Write(w)

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	for _, name := range []string{TriggerCategoriesChanged, TriggerTransactionsChanged, TriggerShowNotification} {
		if _, ok := triggers[name]; !ok {
			t.Errorf("missing trigger %q in %s", name, w.Header().Get("HX-Trigger"))
		}
	}
	if !strings.Contains(string(triggers[TriggerShowNotification]), `"message":"Category added"`) {
		t.Errorf("notification payload = %s", triggers[TriggerShowNotification])
	}
}

func TestResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().
		Header("X-Custom", "value").
		Status(http.StatusAccepted).
		Write(w)

	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("Custom header not set")
	}
	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *ResponseBuilder
		wantStatus int
		wantBody   errorBody
	}{
		{
			name:       "bad request",
			builder:    BadRequestError("invalid input"),
			wantStatus: http.StatusBadRequest,
			wantBody:   errorBody{Error: "invalid input"},
		},
		{
			name:       "validation",
			builder:    ValidationFailed("amount", "amount must be a positive number"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   errorBody{Error: "amount must be a positive number", Field: "amount"},
		},
		{
			name:       "confirmation required",
			builder:    ConfirmationRequired("Are you sure?"),
			wantStatus: http.StatusPreconditionRequired,
			wantBody:   errorBody{Error: "confirmation required", Prompt: "Are you sure?"},
		},
		{
			name:       "internal server error",
			builder:    InternalServerError("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorBody{Error: "something broke"},
		},
		{
			name:       "not found",
			builder:    NotFoundError("record not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   errorBody{Error: "record not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			var got errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if got != tt.wantBody {
				t.Errorf("Body = %+v, want %+v", got, tt.wantBody)
			}
		})
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowedError("GET, POST").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if w.Header().Get("Allow") != "GET, POST" {
		t.Errorf("Allow header = %q, want %q", w.Header().Get("Allow"), "GET, POST")
	}
}

func TestNotificationTypes(t *testing.T) {
	tests := []struct {
		notifType NotificationType
		want      string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		NewResponse().
			TriggerNotification(tt.notifType, "test", 1000).
			Write(w)

		trigger := w.Header().Get("HX-Trigger")
		if !strings.Contains(trigger, `"type":"`+tt.want+`"`) {
			t.Errorf("Notification type %q not found in trigger: %s", tt.want, trigger)
		}
	}
}
