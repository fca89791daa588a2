package http

import (
	"fmt"
	"net/http"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

type transactionFormResponse struct {
	Mode       string               `json:"mode"` // "create" or "edit"
	Form       core.TransactionForm `json:"form"`
	Categories []core.Category      `json:"categories"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		res, err := s.ledger.ListTransactions(r.Context(), ParseListQuery(r.URL.Query()))
		if err != nil {
			writeServiceError(w, r, err, log.OpList, "")
			return
		}
		NewResponse().JSON(res).Write(w)

	case http.MethodPost:
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		t, err := s.ledger.SubmitTransaction(r.Context(), p.TransactionForm())
		if err != nil {
			writeServiceError(w, r, err, log.OpCreate, "")
			return
		}
		NewResponse().
			Status(http.StatusCreated).
			TriggerTransactionsChanged().
			TriggerSuccessNotification(fmt.Sprintf("%s of %s added", titleType(t.Type), t.Amount)).
			JSON(t).
			Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleTransactionForm opens the form in create mode, or in edit mode when
// an id is given.
func (s *Server) handleTransactionForm(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	form, err := s.ledger.TransactionForm(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, log.OpRead, "")
		return
	}
	cats, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpList, "")
		return
	}

	mode := "create"
	if form.IsEdit() {
		mode = "edit"
	}
	NewResponse().JSON(transactionFormResponse{Mode: mode, Form: form, Categories: cats}).Write(w)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		t, err := s.ledger.GetTransaction(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, log.OpRead, "")
			return
		}
		NewResponse().JSON(t).Write(w)

	case http.MethodPut, http.MethodPost:
		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		form := p.TransactionForm()
		form.EditingID = id
		t, err := s.ledger.SubmitTransaction(r.Context(), form)
		if err != nil {
			writeServiceError(w, r, err, log.OpUpdate, "")
			return
		}
		NewResponse().
			TriggerTransactionsChanged().
			TriggerSuccessNotification("Transaction updated").
			JSON(t).
			Write(w)

	case http.MethodDelete:
		err := s.ledger.DeleteTransaction(r.Context(), id, services.Confirmed(confirmed(r)))
		if err != nil {
			writeServiceError(w, r, err, log.OpDelete, services.PromptDeleteTransaction)
			return
		}
		NewResponse().
			Status(http.StatusNoContent).
			TriggerTransactionsChanged().
			TriggerSuccessNotification("Transaction deleted").
			Write(w)

	default:
		MethodNotAllowedError("GET, PUT, POST, DELETE").Write(w)
	}
}

func titleType(t core.TransactionType) string {
	if t == core.Income {
		return "Income"
	}
	return "Expense"
}
