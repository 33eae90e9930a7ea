package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, input service.CreateEventInput) (entity.Event, error)
	EventByCode(ctx context.Context, eventCode string) (entity.Event, error)
	EventByJoinCode(ctx context.Context, joinCode string) (entity.Event, error)
	Join(ctx context.Context, eventCode string, userID uuid.UUID) (service.JoinResult, error)
	UpdateHoleScore(ctx context.Context, eventCode string, userID uuid.UUID, input service.UpdateScoreInput) (service.UpdateScoreResult, error)
	MyScores(ctx context.Context, eventCode string, userID uuid.UUID) ([]entity.HoleScore, error)
	GiveKudos(ctx context.Context, eventCode string, participantID uuid.UUID, kudosType, sessionID string) (service.GiveKudosResult, error)
	EventKudos(ctx context.Context, eventCode string) ([]entity.ParticipantKudos, error)
	Leaderboard(ctx context.Context, eventCode string) ([]entity.LeaderboardEntry, error)
}

type CreateEventRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	EventDate   string  `json:"eventDate"`
	Location    *string `json:"location,omitempty"`
}

type EventResponse struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	EventCode   string  `json:"eventCode"`
	JoinCode    string  `json:"joinCode"`
	EventDate   string  `json:"eventDate"`
	Location    *string `json:"location,omitempty"`
}

// @Summary Create an event
// @Description Creates a 9/9/9 round and joins the creator.
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event details"
// @Success 200 {object} EventResponse
// @Failure 400 {object} ResponseError
// @Failure 401 {object} ResponseError
// @Router /api/events/create [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := entity.UserFromCtx(ctx)

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body.")
		return
	}

	if req.Name == "" {
		sendErr(ctx, w, http.StatusBadRequest, errors.New("empty event name"), "Event name is required.")
		return
	}

	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		eventDate, err = time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			sendErr(ctx, w, http.StatusBadRequest, err, "Event date must be an ISO date.")
			return
		}
	}

	event, err := h.events.CreateEvent(ctx, user.UserID, service.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		EventDate:   eventDate,
		Location:    req.Location,
	})
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	sendJSON(ctx, w, http.StatusOK, eventResponse(event))
}

// @Summary Fetch an event
// @Description Looks the event up by its event code, falling back to the join code.
// @Tags events
// @Produce json
// @Param eventCode path string true "Event or join code"
// @Success 200 {object} EventResponse
// @Failure 404 {object} ResponseError
// @Router /api/events/{eventCode} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("eventCode")

	event, err := h.events.EventByCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrEventNotFound) {
			event, err = h.events.EventByJoinCode(ctx, code)
		}

		if err != nil {
			sendServiceErr(ctx, w, err)
			return
		}
	}

	sendJSON(ctx, w, http.StatusOK, eventResponse(event))
}

type JoinResponse struct {
	Message       string `json:"message"`
	Joined        bool   `json:"joined"`
	ParticipantID string `json:"participantId"`
}

// @Summary Join an event
// @Tags events
// @Produce json
// @Param eventCode path string true "Event code"
// @Success 200 {object} JoinResponse
// @Failure 401 {object} ResponseError
// @Failure 404 {object} ResponseError
// @Router /api/events/{eventCode}/join [post]
func (h *Handler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := entity.UserFromCtx(ctx)

	result, err := h.events.Join(ctx, r.PathValue("eventCode"), user.UserID)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	msg := "Joined the event."
	if !result.Joined {
		msg = "You already joined this event."
	}

	sendJSON(ctx, w, http.StatusOK, JoinResponse{
		Message:       msg,
		Joined:        result.Joined,
		ParticipantID: result.ParticipantID.String(),
	})
}

type UpdateScoreRequest struct {
	HoleNumber   int     `json:"holeNumber"`
	Strokes      *int    `json:"strokes,omitempty"`
	HotDogs      int     `json:"hotDogs"`
	Beverages    int     `json:"beverages"`
	BeverageType *string `json:"beverageType,omitempty"`
}

type UpdateScoreResponse struct {
	Message    string            `json:"message"`
	TotalScore int               `json:"totalScore"`
	HoleScore  HoleScoreResponse `json:"holeScore"`
}

type HoleScoreResponse struct {
	HoleNumber   int     `json:"holeNumber"`
	Strokes      *int    `json:"strokes"`
	HotDogs      int     `json:"hotDogs"`
	Beverages    int     `json:"beverages"`
	BeverageType *string `json:"beverageType,omitempty"`
}

// @Summary Update a hole score
// @Description Overwrites the caller's strokes and consumption for one hole and recomputes the total.
// @Tags scores
// @Accept json
// @Produce json
// @Param eventCode path string true "Event code"
// @Param request body UpdateScoreRequest true "Hole score"
// @Success 200 {object} UpdateScoreResponse
// @Failure 400 {object} ResponseError
// @Failure 401 {object} ResponseError
// @Failure 403 {object} ResponseError
// @Router /api/events/{eventCode}/scores/update [post]
func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := entity.UserFromCtx(ctx)

	var req UpdateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body.")
		return
	}

	result, err := h.events.UpdateHoleScore(ctx, r.PathValue("eventCode"), user.UserID, service.UpdateScoreInput{
		HoleNumber:   req.HoleNumber,
		Strokes:      req.Strokes,
		HotDogs:      req.HotDogs,
		Beverages:    req.Beverages,
		BeverageType: req.BeverageType,
	})
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	sendJSON(ctx, w, http.StatusOK, UpdateScoreResponse{
		Message:    "Score updated.",
		TotalScore: result.TotalScore,
		HoleScore:  holeScoreResponse(result.HoleScore),
	})
}

// @Summary My hole scores
// @Tags scores
// @Produce json
// @Param eventCode path string true "Event code"
// @Success 200 {array} HoleScoreResponse
// @Failure 401 {object} ResponseError
// @Failure 403 {object} ResponseError
// @Router /api/events/{eventCode}/scores/my-scores [get]
func (h *Handler) MyScores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := entity.UserFromCtx(ctx)

	scores, err := h.events.MyScores(ctx, r.PathValue("eventCode"), user.UserID)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	resp := make([]HoleScoreResponse, 0, len(scores))
	for _, s := range scores {
		resp = append(resp, holeScoreResponse(s))
	}

	sendJSON(ctx, w, http.StatusOK, resp)
}

type GiveKudosRequest struct {
	ParticipantID string `json:"participantId"`
	KudosType     string `json:"kudosType"`
}

type GiveKudosResponse struct {
	Message      string `json:"message"`
	AlreadyGiven bool   `json:"alreadyGiven"`
}

// @Summary Give kudos to a participant
// @Description Records an endorsement from the anonymous spectator session.
// @Tags kudos
// @Accept json
// @Produce json
// @Param eventCode path string true "Event code"
// @Param request body GiveKudosRequest true "Kudos"
// @Success 200 {object} GiveKudosResponse
// @Failure 400 {object} ResponseError
// @Failure 404 {object} ResponseError
// @Router /api/events/{eventCode}/kudos [post]
func (h *Handler) GiveKudos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GiveKudosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body.")
		return
	}

	participantID, err := uuid.FromString(req.ParticipantID)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid participant id.")
		return
	}

	sessionID := entity.SpectatorFromCtx(ctx)

	result, err := h.events.GiveKudos(ctx, r.PathValue("eventCode"), participantID, req.KudosType, sessionID)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	msg := "Kudos given!"
	if result.AlreadyGiven {
		msg = "You already gave this kudos."
	}

	sendJSON(ctx, w, http.StatusOK, GiveKudosResponse{Message: msg, AlreadyGiven: result.AlreadyGiven})
}

type KudosTallyResponse struct {
	KudosType string `json:"kudosType"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
}

type ParticipantKudosResponse struct {
	ParticipantID string               `json:"participantId"`
	DisplayName   string               `json:"displayName"`
	Total         int                  `json:"total"`
	Tallies       []KudosTallyResponse `json:"tallies"`
}

// @Summary Event kudos tallies
// @Tags kudos
// @Produce json
// @Param eventCode path string true "Event code"
// @Success 200 {array} ParticipantKudosResponse
// @Failure 404 {object} ResponseError
// @Router /api/events/{eventCode}/kudos [get]
func (h *Handler) EventKudos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kudos, err := h.events.EventKudos(ctx, r.PathValue("eventCode"))
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	resp := make([]ParticipantKudosResponse, 0, len(kudos))

	for _, pk := range kudos {
		tallies := make([]KudosTallyResponse, 0, len(pk.Tallies))
		for _, tally := range pk.Tallies {
			tallies = append(tallies, KudosTallyResponse{
				KudosType: tally.KudosType,
				Label:     entity.KudosTypes[tally.KudosType],
				Count:     tally.Count,
			})
		}

		resp = append(resp, ParticipantKudosResponse{
			ParticipantID: pk.ParticipantID.String(),
			DisplayName:   pk.DisplayName,
			Total:         pk.Total,
			Tallies:       tallies,
		})
	}

	sendJSON(ctx, w, http.StatusOK, resp)
}

type LeaderboardEntryResponse struct {
	ParticipantID  string `json:"participantId"`
	DisplayName    string `json:"displayName"`
	TotalScore     int    `json:"totalScore"`
	TotalStrokes   int    `json:"totalStrokes"`
	TotalHotDogs   int    `json:"totalHotDogs"`
	TotalBeverages int    `json:"totalBeverages"`
	TotalKudos     int    `json:"totalKudos"`
}

// @Summary Event leaderboard
// @Description Standings ordered by total score, lowest first.
// @Tags events
// @Produce json
// @Param eventCode path string true "Event code"
// @Success 200 {array} LeaderboardEntryResponse
// @Failure 404 {object} ResponseError
// @Router /api/events/{eventCode}/leaderboard [get]
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.events.Leaderboard(ctx, r.PathValue("eventCode"))
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	resp := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, LeaderboardEntryResponse{
			ParticipantID:  e.ParticipantID.String(),
			DisplayName:    e.DisplayName,
			TotalScore:     e.TotalScore,
			TotalStrokes:   e.TotalStrokes,
			TotalHotDogs:   e.TotalHotDogs,
			TotalBeverages: e.TotalBeverages,
			TotalKudos:     e.TotalKudos,
		})
	}

	sendJSON(ctx, w, http.StatusOK, resp)
}

func eventResponse(event entity.Event) EventResponse {
	return EventResponse{
		Name:        event.Name,
		Description: event.Description,
		EventCode:   event.EventCode,
		JoinCode:    event.JoinCode,
		EventDate:   event.EventDate.Format(time.RFC3339),
		Location:    event.Location,
	}
}

func holeScoreResponse(s entity.HoleScore) HoleScoreResponse {
	return HoleScoreResponse{
		HoleNumber:   s.HoleNumber,
		Strokes:      s.Strokes,
		HotDogs:      s.HotDogs,
		Beverages:    s.Beverages,
		BeverageType: s.BeverageType,
	}
}
