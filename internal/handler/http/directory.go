package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/handler/http/response"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type DirectoryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	ValidateCFMSID(w http.ResponseWriter, r *http.Request)
	SearchAll(w http.ResponseWriter, r *http.Request)
	Lookup(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Add(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
}

type DirectoryHandlerImpl struct {
	directoryService directory.Service
	now              func() time.Time
}

func NewDirectoryHandler(directoryService directory.Service) DirectoryHandler {
	return &DirectoryHandlerImpl{
		directoryService: directoryService,
		now:              time.Now,
	}
}

type listResponse[T any] struct {
	Success bool  `json:"success"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Rows    []T   `json:"rows"`
}

func writePage[T any](w http.ResponseWriter, page staff.Page[T], filter staff.Filter) {
	rows := page.Rows
	if rows == nil {
		rows = []T{}
	}
	response.JSON(w, http.StatusOK, listResponse[T]{
		Success: true,
		Total:   page.Total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Rows:    rows,
	})
}

// List implements DirectoryHandler.
func (h *DirectoryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query())

	if directory.ParseSource(r.URL.Query().Get("source")) == directory.SourceMaster {
		page, err := h.directoryService.ListStaff(r.Context(), filter)
		if err != nil {
			slog.Error("List staff service error", "error", err)
			response.HandleError(w, err)
			return
		}
		writePage(w, page, filter)
		return
	}

	page, err := h.directoryService.ListEntries(r.Context(), filter)
	if err != nil {
		slog.Error("List directory service error", "error", err)
		response.HandleError(w, err)
		return
	}
	writePage(w, page, filter)
}

// Stats implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.directoryService.Stats(r.Context(), directory.ParseSource(r.URL.Query().Get("source")))
	if err != nil {
		slog.Error("Stats service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		staff.Stats
	}{Success: true, Stats: stats})
}

// Get implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		record any
		err    error
	)
	if directory.ParseSource(r.URL.Query().Get("source")) == directory.SourceMaster {
		record, err = h.directoryService.GetStaff(r.Context(), id)
	} else {
		record, err = h.directoryService.GetEntry(r.Context(), id)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, record)
}

// Profile implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	source := directory.ParseSource(r.URL.Query().Get("source"))
	result, err := h.directoryService.Profile(r.Context(), source, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

type validateResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Exists   bool               `json:"exists"`
	Employee *directory.Summary `json:"employee,omitempty"`
}

// ValidateCFMSID implements DirectoryHandler.
func (h *DirectoryHandlerImpl) ValidateCFMSID(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryService.ValidateCFMSID(r.Context(), chi.URLParam(r, "cfmsId"))
	if err != nil {
		slog.Error("ValidateCFMSID service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if result.Exists {
		summary := result.Existing.Summary()
		response.JSON(w, http.StatusConflict, validateResponse{
			Success:  false,
			Message:  directory.ErrCFMSIDExists.Error(),
			Exists:   true,
			Employee: &summary,
		})
		return
	}
	response.JSON(w, http.StatusOK, validateResponse{
		Success: true,
		Message: "CFMS ID is available",
		Exists:  false,
	})
}

// SearchAll implements DirectoryHandler.
func (h *DirectoryHandlerImpl) SearchAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryService.SearchAll(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		slog.Error("SearchAll service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		directory.SearchAllResult
	}{Success: true, SearchAllResult: result})
}

// Lookup implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryService.Lookup(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		directory.LookupResult
	}{Success: true, LookupResult: result})
}

// Export implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, ok := export.ParseFormat(q.Get("format"))
	if !ok {
		response.BadRequest(w, "format must be xlsx or csv", nil)
		return
	}

	rows, err := h.directoryService.ExportRows(r.Context(), directory.ParseSource(q.Get("source")), parseFilter(q))
	if err != nil {
		slog.Error("Export service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Render fully before writing headers so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		slog.Error("Export render error", "error", err)
		response.InternalServerError(w, "Failed to render export", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(h.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Export write interrupted", "error", err)
	}
}

type addResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Employee directory.Entry `json:"employee"`
}

// Add implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Add(w http.ResponseWriter, r *http.Request) {
	var req directory.AddEntryRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Add decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.directoryService.AddEntry(r.Context(), req)
	if err != nil {
		if !errors.Is(err, directory.ErrCFMSIDExists) && !errors.Is(err, directory.ErrEmployeeIDExists) {
			slog.Error("Add service error", "error", err)
		}
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, addResponse{
		Success:  true,
		Message:  "Employee added successfully",
		Employee: entry,
	})
}

// Remove implements DirectoryHandler.
func (h *DirectoryHandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	cfmsID := chi.URLParam(r, "cfmsId")
	if err := h.directoryService.RemoveEntry(r.Context(), cfmsID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee removed successfully", nil)
}
