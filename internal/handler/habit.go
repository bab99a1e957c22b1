package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/selfgrowth/tracker/internal/ctxkeys"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/response"
	"github.com/selfgrowth/tracker/internal/service"
	"github.com/selfgrowth/tracker/internal/validation"
	"github.com/selfgrowth/tracker/internal/websocket"
)

// Broadcaster pushes change notifications to a user's live connections.
type Broadcaster interface {
	Broadcast(userID string, msg websocket.Message)
}

type HabitHandler struct {
	habitService  *service.HabitService
	exportService *service.ExportService
	broadcaster   Broadcaster
}

func NewHabitHandler(habitService *service.HabitService, exportService *service.ExportService, broadcaster Broadcaster) *HabitHandler {
	return &HabitHandler{
		habitService:  habitService,
		exportService: exportService,
		broadcaster:   broadcaster,
	}
}

// habitRequest accepts both "cadence" and the older "frequency" key, and
// "active" or "is_active". Absent fields keep their current value on update.
type habitRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Cadence      *string `json:"cadence"`
	Frequency    *string `json:"frequency"`
	ReminderTime *string `json:"reminder_time"`
	Active       *bool   `json:"active"`
	IsActive     *bool   `json:"is_active"`
}

func (req habitRequest) cadence() *string {
	if req.Cadence != nil {
		return req.Cadence
	}
	return req.Frequency
}

func (req habitRequest) active() *bool {
	if req.Active != nil {
		return req.Active
	}
	return req.IsActive
}

// apply merges the request onto input.
func (req habitRequest) apply(input service.HabitInput) service.HabitInput {
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if c := req.cadence(); c != nil {
		input.Cadence = *c
	}
	if req.ReminderTime != nil {
		input.ReminderTime = req.ReminderTime
	}
	if a := req.active(); a != nil {
		input.Active = *a
	}
	return input
}

type logRequest struct {
	Completed *bool   `json:"completed"`
	Date      *string `json:"date"`
	Notes     string  `json:"notes"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req habitRequest
	err := decodeJSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	habit, err := h.habitService.Create(user.ID, req.apply(service.HabitInput{}))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.notify(user.ID, "created", habit.ID, habit)
	response.OK(w, http.StatusCreated, "Habit created successfully", map[string]any{"habit": habit})
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habits, err := h.habitService.ListActive(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", map[string]any{"habits": habits})
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habit, err := h.habitService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", map[string]any{"habit": habit})
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req habitRequest
	err := decodeJSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	current, err := h.habitService.ByID(user.ID, habitID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	input := req.apply(service.HabitInput{
		Name:         current.Name,
		Description:  current.Description,
		Cadence:      current.Cadence,
		ReminderTime: current.ReminderTime,
		Active:       current.Active,
	})

	habit, err := h.habitService.Update(user.ID, habitID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.notify(user.ID, "updated", habit.ID, habit)
	response.OK(w, http.StatusOK, "Habit updated successfully", map[string]any{"habit": habit})
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	err := h.habitService.Delete(user.ID, habitID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.notify(user.ID, "deleted", habitID, nil)
	response.OK(w, http.StatusOK, "Habit deleted successfully", nil)
}

func (h *HabitHandler) Log(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req logRequest
	err := decodeJSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Completed == nil {
		response.Error(w, http.StatusBadRequest, "completed must be a boolean")
		return
	}

	var date *model.Date
	if req.Date != nil && *req.Date != "" {
		d, err := validation.ParseDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		date = &d
	}

	log, err := h.habitService.LogHabit(user.ID, habitID, *req.Completed, date, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.notify(user.ID, "logged", habitID, log)
	response.OK(w, http.StatusOK, "Habit logged successfully", map[string]any{"log": log})
}

func (h *HabitHandler) Logs(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	start, err := queryDate(r, "startDate")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		writeError(w, r, err)
		return
	}

	logs, err := h.habitService.HabitLogs(user.ID, r.PathValue("id"), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", map[string]any{"logs": logs})
}

func (h *HabitHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	streak, err := h.habitService.Streak(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", streak)
}

func (h *HabitHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.habitService.Stats(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", map[string]any{"stats": stats})
}

// Export streams every habit with its logs as a JSON attachment.
func (h *HabitHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	export, err := h.habitService.Export(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=habits-export.json")

	err = json.NewEncoder(w).Encode(export)
	if err != nil {
		slog.Error("failed to encode habits", "error", err, "user_id", user.ID)
	}
}

// Archive stores the export in object storage and returns a download link.
func (h *HabitHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	file, err := h.exportService.Archive(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, http.StatusCreated, "Export created", map[string]any{"export": file})
}

func (h *HabitHandler) notify(userID, action, habitID string, data any) {
	if h.broadcaster == nil {
		return
	}
	h.broadcaster.Broadcast(userID, websocket.NewMessage("habit", action, habitID, data))
}

func queryDate(r *http.Request, key string) (*model.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := validation.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
