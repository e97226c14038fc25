package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alamin00006/business-management/internal/domain"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if status >= 400 {
		writeRawJSON(w, status, apiResponse{
			Status:  "error",
			Message: "",
			Data:    payload,
			Error: &apiError{
				Code:   status,
				Status: http.StatusText(status),
			},
		})
		return
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "ok",
		Message: "",
		Data:    payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Data:    nil,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

// writeDomainError maps ledger errors to HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		insufficientStock  *domain.InsufficientStockError
		duplicateInvoice   *domain.DuplicateInvoiceError
		refNotFound        *domain.ReferenceNotFoundError
		returnExceedsQty   *domain.ReturnExceedsQuantityError
		refundExceedsValue *domain.RefundExceedsValueError
		insufficientPoints *domain.InsufficientPointsError
		invalidPayment     *domain.InvalidPaymentError
		validation         *domain.ValidationError
		conflict           *domain.ConflictError
		timeout            *domain.TransactionTimeoutError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &refNotFound):
		writeError(w, http.StatusNotFound, refNotFound.Error())
	case errors.As(err, &insufficientStock):
		writeError(w, http.StatusConflict, insufficientStock.Error())
	case errors.As(err, &duplicateInvoice):
		writeError(w, http.StatusConflict, duplicateInvoice.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "conflict, please retry")
	case errors.As(err, &returnExceedsQty):
		writeError(w, http.StatusBadRequest, returnExceedsQty.Error())
	case errors.As(err, &refundExceedsValue):
		writeError(w, http.StatusBadRequest, refundExceedsValue.Error())
	case errors.As(err, &insufficientPoints):
		writeError(w, http.StatusBadRequest, insufficientPoints.Error())
	case errors.As(err, &invalidPayment):
		writeError(w, http.StatusBadRequest, invalidPayment.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &timeout):
		writeError(w, http.StatusGatewayTimeout, "operation timed out")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
