package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greet-service/internal/app"
	"github.com/greet-service/internal/database"
	"github.com/greet-service/internal/models"
)

// maxBodyBytes bounds the user record a client may post.
const maxBodyBytes = 1 << 20

var (
	errContentType = errors.New("Content-Type must be application/json")
	errBody        = errors.New("Request body must be a JSON object")
	errName        = errors.New("Request must include name field")
)

type UserHandler struct {
	app *app.App
}

func NewUserHandler(app *app.App) *UserHandler {
	return &UserHandler{app: app}
}

// Routes mounts the service endpoints on r.
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/", h.Greet)
	r.Post("/", h.SaveName)
}

func (h *UserHandler) Greet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: h.app.Greeting(r.Context())})
}

func (h *UserHandler) SaveName(w http.ResponseWriter, r *http.Request) {
	user, err := decodeUser(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	msg, err := h.app.Remember(r.Context(), user)
	if err != nil {
		slog.Error("Error storing user",
			slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "could not store user"})
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: msg})
}

func decodeUser(w http.ResponseWriter, r *http.Request) (database.User, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, errContentType
	}

	var user database.User
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&user); err != nil || user == nil {
		return nil, errBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errBody
	}
	if _, ok := user["name"].(string); !ok {
		return nil, errName
	}
	return user, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}
