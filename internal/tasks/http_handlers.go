package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

const LivenessMessage = "✅ Todo API is running!"

// Register mounts the liveness route and the task API on mux.
func Register(mux *http.ServeMux, svc *Service, logger *log.Logger) {
	mux.HandleFunc("GET /{$}", LivenessHandler())
	mux.HandleFunc("GET /api/tasks", ListTasksHandler(svc, logger))
	mux.HandleFunc("POST /api/tasks", CreateTaskHandler(svc, logger))
	mux.HandleFunc("PUT /api/tasks/{id}", UpdateTaskHandler(svc, logger))
	mux.HandleFunc("DELETE /api/tasks/{id}", DeleteTaskHandler(svc, logger))
}

// -------------------------------
// HANDLERS
// -------------------------------

func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(LivenessMessage))
	}
}

func ListTasksHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListTasks(storeContext(r))
		if err != nil {
			logger.Error("list tasks", "err", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to fetch tasks")
			return
		}
		writeJSON(w, logger, http.StatusOK, toResponseList(list))
	}
}

func CreateTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.CreateTask(storeContext(r), body.Title)
		switch {
		case errors.Is(err, ErrValidation):
			writeError(w, logger, http.StatusBadRequest, "Title is required")
			return
		case err != nil:
			logger.Error("create task", "err", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to add task")
			return
		}

		logger.Debug("task created", "id", t.ID)
		writeJSON(w, logger, http.StatusCreated, toResponse(t))
	}
}

func UpdateTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var body updateRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.UpdateTaskDone(storeContext(r), id, body.Done)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, logger, http.StatusNotFound, "Task not found")
			return
		case err != nil:
			logger.Error("update task", "id", id, "err", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to update task")
			return
		}

		writeJSON(w, logger, http.StatusOK, toResponse(t))
	}
}

func DeleteTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		err := svc.DeleteTask(storeContext(r), id)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, logger, http.StatusNotFound, "Task not found")
			return
		case err != nil:
			logger.Error("delete task", "id", id, "err", err)
			writeError(w, logger, http.StatusInternalServerError, "Failed to delete task")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]bool{"success": true})
	}
}

// -------------------------------
// helpers
// -------------------------------

// storeContext detaches the store call from the client connection so a
// disconnect does not abort a write halfway through the request.
func storeContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody treats an empty body as {} and rejects anything after the
// first JSON value.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// writeJSON marshals before touching the response so an encode failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, logger *log.Logger, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response", "err", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(b, '\n')); err != nil {
		logger.Debug("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, logger *log.Logger, status int, msg string) {
	writeJSON(w, logger, status, map[string]string{"error": msg})
}
