package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the session store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]interface{}{}

	if _, err := s.ledger.ListCategories(ctx); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.limiter.GetMetrics().ClientCount,
		"status":         "ok",
	}

	NewResponse().Status(code).JSON(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	rateLimitMetrics := s.limiter.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_last_response_seconds Duration of the last request\n")
	fmt.Fprintf(w, "# TYPE http_last_response_seconds gauge\n")
	fmt.Fprintf(w, "http_last_response_seconds %.6f\n\n", traceMetrics.LastResponseTime.Seconds())

	fmt.Fprintf(w, "# HELP rate_limit_rejected_total Total requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_rejected_total counter\n")
	fmt.Fprintf(w, "rate_limit_rejected_total %d\n\n", rateLimitMetrics.Rejected)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", s.detector.SuspiciousCount())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}

// Categories

type categoriesResponse struct {
	Categories []core.Category   `json:"categories"`
	Form       core.CategoryForm `json:"form"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.ledger.ListCategories(r.Context())
		if err != nil {
			writeServiceError(w, r, err, log.OpList, "")
			return
		}
		NewResponse().JSON(categoriesResponse{
			Categories: cats,
			Form:       core.NewCategoryForm(nil),
		}).Write(w)

	case http.MethodPost:
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		c, err := s.ledger.CreateCategory(r.Context(), p.CategoryForm())
		if err != nil {
			writeServiceError(w, r, err, log.OpCreate, "")
			return
		}
		NewResponse().
			Status(http.StatusCreated).
			TriggerCategoriesChanged().
			TriggerSuccessNotification(fmt.Sprintf("Category %q added", c.Name)).
			JSON(c).
			Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		c, err := s.ledger.GetCategory(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, log.OpRead, "")
			return
		}
		NewResponse().JSON(core.NewCategoryForm(&c)).Write(w)

	case http.MethodPut, http.MethodPost:
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		c, err := s.ledger.UpdateCategory(r.Context(), id, p.CategoryForm())
		if err != nil {
			writeServiceError(w, r, err, log.OpUpdate, "")
			return
		}
		NewResponse().
			TriggerCategoriesChanged().
			TriggerSuccessNotification("Category updated").
			JSON(c).
			Write(w)

	case http.MethodDelete:
		err := s.ledger.DeleteCategory(r.Context(), id, services.Confirmed(confirmed(r)))
		if err != nil {
			writeServiceError(w, r, err, log.OpDelete, services.PromptDeleteCategory)
			return
		}
		NewResponse().
			Status(http.StatusNoContent).
			TriggerCategoriesChanged().
			TriggerSuccessNotification("Category deleted").
			Write(w)

	default:
		MethodNotAllowedError("GET, PUT, POST, DELETE").Write(w)
	}
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	NewResponse().JSON(map[string]interface{}{
		"colors":  core.PaletteColors(),
		"default": core.Palette[0],
	}).Write(w)
}
