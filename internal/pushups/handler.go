package pushups

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/pushupchecker/internal/telemetry/tracing"
	"github.com/2beens/pushupchecker/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const invalidGoalMessage = "Please enter a valid push-up goal."

type StartRequest struct {
	Goal json.Number `json:"goal" validate:"required"`
	Type string      `json:"type"`
}

type Handler struct {
	manager  *Manager
	validate *validator.Validate
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager:  manager,
		validate: validator.New(),
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/session", h.HandleStart).Methods("POST", "OPTIONS").Name("start-session")
	r.HandleFunc("/session", h.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/session", h.HandleStop).Methods("DELETE", "OPTIONS").Name("stop-session")
	r.HandleFunc("/types", h.HandleTypes).Methods("GET", "OPTIONS").Name("list-types")
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.session.start")
	defer span.End()

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("start session, unmarshal json params: %s", err)
		http.Error(w, invalidGoalMessage, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, invalidGoalMessage, http.StatusBadRequest)
		return
	}

	goal, err := ParseGoal(req.Goal.String())
	if err != nil {
		log.Debugf("start session: %s", err)
		http.Error(w, invalidGoalMessage, http.StatusBadRequest)
		return
	}
	pushUpType, err := ParsePushUpType(req.Type)
	if err != nil {
		log.Debugf("start session: %s", err)
		http.Error(w, "Please choose a valid push-up type.", http.StatusBadRequest)
		return
	}

	snapshot, err := h.manager.Start(StartParams{
		Goal: goal,
		Type: pushUpType,
	})
	if err != nil {
		if errors.Is(err, ErrSessionRunning) {
			http.Error(w, "session already running", http.StatusConflict)
			return
		}
		log.Errorf("start session: %s", err)
		http.Error(w, "failed to start session", http.StatusServiceUnavailable)
		return
	}

	pkg.WriteJSON(w, snapshot, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.manager.Current()
	if !ok {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.session.stop")
	defer span.End()

	snapshot, err := h.manager.Stop()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			http.Error(w, "no session", http.StatusNotFound)
			return
		}
		log.Errorf("stop session: %s", err)
		http.Error(w, "failed to stop session", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, PushUpTypes, http.StatusOK)
}
