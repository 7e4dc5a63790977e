package handler

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

// hostedSession pairs one engine session with the round history the host
// maintains on its behalf. The engine itself is single-threaded; the mutex
// serializes HTTP and WebSocket access to it.
type hostedSession struct {
	mu      sync.Mutex
	session *engine.Session
	history engine.Context
}

// roundResult is the response for one completed round.
type roundResult struct {
	Round      int            `json:"round"`
	PlayerMove engine.Move    `json:"playerMove"`
	AIMove     engine.Move    `json:"aiMove"`
	Outcome    engine.Outcome `json:"outcome"` // from the player's perspective
	Trace      engine.Trace   `json:"trace"`
}

// playRound runs one full predict/reveal/observe cycle.
func (hs *hostedSession) playRound(playerMove engine.Move) roundResult {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	aiMove, trace := hs.session.Predict(&hs.history)
	hs.session.Observe(&hs.history, playerMove)
	hs.history.Record(playerMove, aiMove)

	return roundResult{
		Round:      hs.history.Rounds(),
		PlayerMove: playerMove,
		AIMove:     aiMove,
		Outcome:    engine.OutcomeOf(playerMove, aiMove),
		Trace:      trace,
	}
}

// SessionHandler manages prediction sessions for HTTP clients.
type SessionHandler struct {
	cfg               engine.Config
	store             engine.ModelStore
	defaultDifficulty engine.Difficulty
	log               zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*hostedSession
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(cfg engine.Config, store engine.ModelStore, defaultDifficulty engine.Difficulty, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		cfg:               cfg,
		store:             store,
		defaultDifficulty: defaultDifficulty,
		log:               log,
		sessions:          make(map[string]*hostedSession),
	}
}

// Register wires the session routes onto the mux.
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.GetSession)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}", h.UpdateSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.CloseSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/rounds", h.PlayRound)
	mux.HandleFunc("POST /api/v1/sessions/{id}/reset", h.ResetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/model", h.ClearModel)
	mux.HandleFunc("GET /api/v1/sessions/{id}/ws", h.ServeWS)
}

func (h *SessionHandler) lookup(r *http.Request) (string, *hostedSession) {
	id := r.PathValue("id")
	h.mu.RLock()
	defer h.mu.RUnlock()
	return id, h.sessions[id]
}

type sessionInfo struct {
	SessionID  string            `json:"sessionId"`
	ProfileID  string            `json:"profileId"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Training   bool              `json:"training"`
	Rounds     int               `json:"rounds"`
}

func (h *SessionHandler) info(id string, hs *hostedSession) sessionInfo {
	return sessionInfo{
		SessionID:  id,
		ProfileID:  hs.session.ProfileID(),
		Difficulty: hs.session.Difficulty(),
		Training:   hs.session.TrainingMode(),
		Rounds:     hs.session.Rounds(),
	}
}

// CreateSession handles POST /api/v1/sessions.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID  string `json:"profileId"`
		Difficulty string `json:"difficulty"`
		Training   bool   `json:"training"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProfileID == "" {
		writeError(w, http.StatusBadRequest, "profileId is required")
		return
	}

	difficulty := h.defaultDifficulty
	if req.Difficulty != "" {
		var err error
		if difficulty, err = engine.ParseDifficulty(req.Difficulty); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	session := engine.NewSession(h.cfg, h.store, req.ProfileID, h.log)
	session.SetDifficulty(difficulty)
	session.SetTrainingMode(req.Training)

	id := uuid.NewString()
	hs := &hostedSession{session: session}
	h.mu.Lock()
	h.sessions[id] = hs
	h.mu.Unlock()

	h.log.Info().Str("sessionId", id).Str("profileId", req.ProfileID).Msg("Session created")
	writeJSON(w, http.StatusCreated, h.info(id, hs))
}

// GetSession handles GET /api/v1/sessions/{id}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, hs := h.lookup(r)
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	writeJSON(w, http.StatusOK, h.info(id, hs))
}

// UpdateSession handles PATCH /api/v1/sessions/{id}: difficulty and
// training toggles mid-session.
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, hs := h.lookup(r)
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req struct {
		Difficulty *string `json:"difficulty"`
		Training   *bool   `json:"training"`
		Prediction *bool   `json:"prediction"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()
	if req.Difficulty != nil {
		difficulty, err := engine.ParseDifficulty(*req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hs.session.SetDifficulty(difficulty)
	}
	if req.Training != nil {
		hs.session.SetTrainingMode(*req.Training)
	}
	if req.Prediction != nil {
		hs.session.SetPredictionEnabled(*req.Prediction)
	}
	writeJSON(w, http.StatusOK, h.info(id, hs))
}

// PlayRound handles POST /api/v1/sessions/{id}/rounds.
func (h *SessionHandler) PlayRound(w http.ResponseWriter, r *http.Request) {
	_, hs := h.lookup(r)
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req struct {
		PlayerMove string `json:"playerMove"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	playerMove, err := engine.ParseMove(req.PlayerMove)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, hs.playRound(playerMove))
}

// ResetSession handles POST /api/v1/sessions/{id}/reset: discards the
// session-scoped learning and round history, keeping the persisted model.
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id, hs := h.lookup(r)
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.session.ResetSession()
	hs.history = engine.Context{}
	writeJSON(w, http.StatusOK, h.info(id, hs))
}

// ClearModel handles DELETE /api/v1/sessions/{id}/model: wipes the
// persisted model and all in-memory learning for the profile.
func (h *SessionHandler) ClearModel(w http.ResponseWriter, r *http.Request) {
	id, hs := h.lookup(r)
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.history = engine.Context{}
	if err := hs.session.ClearProfile(r.Context()); err != nil {
		h.log.Warn().Err(err).Str("sessionId", id).Msg("Model clear failed")
		writeError(w, http.StatusInternalServerError, "failed to clear model")
		return
	}
	writeJSON(w, http.StatusOK, h.info(id, hs))
}

// CloseSession handles DELETE /api/v1/sessions/{id}: flushes pending
// persistence and forgets the session.
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.mu.Lock()
	hs := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if hs == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	hs.mu.Lock()
	hs.session.Close()
	hs.mu.Unlock()
	h.log.Info().Str("sessionId", id).Msg("Session closed")
	w.WriteHeader(http.StatusNoContent)
}

// CloseAll flushes and drops every live session; called on shutdown.
func (h *SessionHandler) CloseAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*hostedSession)
	h.mu.Unlock()

	for id, hs := range sessions {
		hs.mu.Lock()
		hs.session.Close()
		hs.mu.Unlock()
		h.log.Debug().Str("sessionId", id).Msg("Session flushed on shutdown")
	}
}
