package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/cdma-ap/cmsnr-directory/internal/handler/http/response"
)

type BirthdayHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Send(w http.ResponseWriter, r *http.Request)
}

type BirthdayHandlerImpl struct {
	birthdayService birthday.Service
}

func NewBirthdayHandler(birthdayService birthday.Service) BirthdayHandler {
	return &BirthdayHandlerImpl{birthdayService: birthdayService}
}

// Today implements BirthdayHandler.
func (h *BirthdayHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.birthdayService.Today(r.Context())
	if err != nil {
		slog.Error("Birthday today service error", "error", err)
		response.HandleError(w, err)
		return
	}
	if candidates == nil {
		candidates = []birthday.Candidate{}
	}
	response.JSON(w, http.StatusOK, struct {
		Success   bool                 `json:"success"`
		Count     int                  `json:"count"`
		Employees []birthday.Candidate `json:"employees"`
	}{Success: true, Count: len(candidates), Employees: candidates})
}

// Send implements BirthdayHandler.
func (h *BirthdayHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	slog.Info("manual birthday run requested")

	// A client giving up must not stop a run halfway through the list.
	summary, err := h.birthdayService.SendToday(context.WithoutCancel(r.Context()), birthday.TriggerManual)
	if err != nil {
		slog.Error("Birthday send service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		birthday.Summary
	}{Success: true, Summary: summary})
}
