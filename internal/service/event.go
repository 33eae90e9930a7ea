package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/pkg/broker"
)

const (
	eventCodeLength = 8
	joinCodeLength  = 6
	codeCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	maxCodeGenerationRetries = 5
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event entity.Event) error
	FindEventByCode(ctx context.Context, eventCode string) (entity.Event, error)
	FindEventByJoinCode(ctx context.Context, joinCode string) (entity.Event, error)
	JoinEvent(ctx context.Context, participant entity.Participant) (bool, error)
	FindParticipant(ctx context.Context, eventID, userID uuid.UUID) (entity.Participant, error)
	FindParticipantByID(ctx context.Context, participantID uuid.UUID) (entity.Participant, error)
	UpsertHoleScore(ctx context.Context, score entity.HoleScore) error
	ListHoleScores(ctx context.Context, participantID uuid.UUID) ([]entity.HoleScore, error)
	UpdateTotalScore(ctx context.Context, participantID uuid.UUID, totalScore int) error
	Leaderboard(ctx context.Context, eventID uuid.UUID) ([]entity.LeaderboardEntry, error)
}

type KudosRepository interface {
	GiveKudos(ctx context.Context, kudos entity.Kudos) (bool, error)
	EventKudos(ctx context.Context, eventID uuid.UUID) ([]entity.ParticipantKudos, error)
}

type EventPublisher interface {
	PublishScoreUpdated(ctx context.Context, event broker.ScoreUpdatedEvent)
	PublishKudosGiven(ctx context.Context, event broker.KudosGivenEvent)
}

type EventService struct {
	eventRepo EventRepository
	kudosRepo KudosRepository
	publisher EventPublisher

	// scoreMu serializes the read-recompute-write cycle per participant so
	// concurrent hole updates cannot interleave stale totals.
	scoreMu   sync.Mutex
	scoreLock map[uuid.UUID]*sync.Mutex
}

func NewEventService(eventRepo EventRepository, kudosRepo KudosRepository, publisher EventPublisher) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		kudosRepo: kudosRepo,
		publisher: publisher,
		scoreLock: make(map[uuid.UUID]*sync.Mutex),
	}
}

type CreateEventInput struct {
	Name        string
	Description *string
	EventDate   time.Time
	Location    *string
}

// CreateEvent creates a new round with fresh event and join codes and joins
// the creator as its first participant.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, input CreateEventInput) (entity.Event, error) {
	if input.Name == "" {
		return entity.Event{}, entity.ErrEventNameRequired
	}

	var event entity.Event

	for attempt := 0; ; attempt++ {
		event = entity.Event{
			ID:          uuid.Must(uuid.NewV4()),
			Name:        input.Name,
			Description: input.Description,
			EventCode:   randomCode(eventCodeLength),
			JoinCode:    randomCode(joinCodeLength),
			CreatorID:   creatorID,
			EventDate:   input.EventDate,
			Location:    input.Location,
		}

		err := s.eventRepo.CreateEvent(ctx, event)
		if err == nil {
			break
		}

		if errors.Is(err, entity.ErrAlreadyExists) && attempt < maxCodeGenerationRetries {
			slog.WarnContext(ctx, "event code collision, regenerating", "event_code", event.EventCode)
			continue
		}

		slog.ErrorContext(ctx, "failed to create event", "name", input.Name, "error", err)

		return entity.Event{}, fmt.Errorf("create event: %w", err)
	}

	if _, err := s.Join(ctx, event.EventCode, creatorID); err != nil {
		slog.ErrorContext(ctx, "failed to auto-join creator", "event_code", event.EventCode, "creator_id", creatorID, "error", err)
		return entity.Event{}, fmt.Errorf("join creator: %w", err)
	}

	slog.InfoContext(ctx, "event created", "event_code", event.EventCode, "creator_id", creatorID)

	return event, nil
}

func (s *EventService) EventByCode(ctx context.Context, eventCode string) (entity.Event, error) {
	return s.eventRepo.FindEventByCode(ctx, eventCode)
}

func (s *EventService) EventByJoinCode(ctx context.Context, joinCode string) (entity.Event, error) {
	return s.eventRepo.FindEventByJoinCode(ctx, joinCode)
}

type JoinResult struct {
	Event         entity.Event
	ParticipantID uuid.UUID
	Joined        bool // false when the user was already a participant
}

// Join adds the user to the event and eagerly creates its nine hole rows in
// the same transaction. Joining twice is a no-op reported through Joined.
func (s *EventService) Join(ctx context.Context, eventCode string, userID uuid.UUID) (JoinResult, error) {
	event, err := s.eventRepo.FindEventByCode(ctx, eventCode)
	if err != nil {
		return JoinResult{}, err
	}

	participant := entity.Participant{
		ID:      uuid.Must(uuid.NewV4()),
		UserID:  userID,
		EventID: event.ID,
	}

	joined, err := s.eventRepo.JoinEvent(ctx, participant)
	if err != nil {
		slog.ErrorContext(ctx, "failed to join event", "event_code", eventCode, "user_id", userID, "error", err)
		return JoinResult{}, fmt.Errorf("join event: %w", err)
	}

	if !joined {
		existing, findErr := s.eventRepo.FindParticipant(ctx, event.ID, userID)
		if findErr != nil {
			return JoinResult{}, fmt.Errorf("find existing participant: %w", findErr)
		}

		return JoinResult{Event: event, ParticipantID: existing.ID, Joined: false}, nil
	}

	slog.InfoContext(ctx, "user joined event", "event_code", eventCode, "user_id", userID)

	return JoinResult{Event: event, ParticipantID: participant.ID, Joined: true}, nil
}

type UpdateScoreInput struct {
	HoleNumber   int
	Strokes      *int
	HotDogs      int
	Beverages    int
	BeverageType *string
}

type UpdateScoreResult struct {
	HoleScore  entity.HoleScore
	TotalScore int
}

// UpdateHoleScore overwrites one hole row for the caller and recomputes the
// participant's cached total from all nine rows.
func (s *EventService) UpdateHoleScore(ctx context.Context, eventCode string, userID uuid.UUID, input UpdateScoreInput) (UpdateScoreResult, error) {
	if input.HoleNumber < 1 || input.HoleNumber > entity.HolesPerEvent {
		return UpdateScoreResult{}, entity.ErrInvalidHoleNumber
	}

	event, err := s.eventRepo.FindEventByCode(ctx, eventCode)
	if err != nil {
		return UpdateScoreResult{}, err
	}

	participant, err := s.eventRepo.FindParticipant(ctx, event.ID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return UpdateScoreResult{}, entity.ErrNotParticipant
		}

		return UpdateScoreResult{}, fmt.Errorf("find participant: %w", err)
	}

	score := entity.HoleScore{
		ID:            uuid.Must(uuid.NewV4()),
		ParticipantID: participant.ID,
		HoleNumber:    input.HoleNumber,
		Strokes:       input.Strokes,
		HotDogs:       input.HotDogs,
		Beverages:     input.Beverages,
		BeverageType:  input.BeverageType,
	}

	unlock := s.lockParticipant(participant.ID)
	defer unlock()

	if err := s.eventRepo.UpsertHoleScore(ctx, score); err != nil {
		slog.ErrorContext(ctx, "failed to save hole score",
			"event_code", eventCode, "participant_id", participant.ID, "hole", input.HoleNumber, "error", err)
		return UpdateScoreResult{}, fmt.Errorf("save hole score: %w", err)
	}

	total, err := s.recomputeLocked(ctx, participant.ID)
	if err != nil {
		return UpdateScoreResult{}, err
	}

	var displayName string
	if user := entity.UserFromCtx(ctx); user != nil {
		displayName = user.DisplayName
	}

	s.publisher.PublishScoreUpdated(ctx, broker.ScoreUpdatedEvent{
		EventCode:    event.EventCode,
		Participant:  participant.ID.String(),
		DisplayName:  displayName,
		HoleNumber:   input.HoleNumber,
		Strokes:      input.Strokes,
		HotDogs:      input.HotDogs,
		Beverages:    input.Beverages,
		BeverageType: input.BeverageType,
		TotalScore:   total,
	})

	slog.InfoContext(ctx, "hole score updated",
		"event_code", eventCode, "participant_id", participant.ID, "hole", input.HoleNumber, "total_score", total)

	return UpdateScoreResult{HoleScore: score, TotalScore: total}, nil
}

// Recompute recalculates and overwrites the participant's cached total from
// the current hole rows.
func (s *EventService) Recompute(ctx context.Context, participantID uuid.UUID) (int, error) {
	unlock := s.lockParticipant(participantID)
	defer unlock()

	return s.recomputeLocked(ctx, participantID)
}

func (s *EventService) recomputeLocked(ctx context.Context, participantID uuid.UUID) (int, error) {
	scores, err := s.eventRepo.ListHoleScores(ctx, participantID)
	if err != nil {
		return 0, fmt.Errorf("list hole scores: %w", err)
	}

	total := ComputeTotalScore(scores)

	if err := s.eventRepo.UpdateTotalScore(ctx, participantID, total); err != nil {
		return 0, fmt.Errorf("update total score: %w", err)
	}

	return total, nil
}

// ComputeTotalScore is the 9/9/9 scoring rule: strokes plus a five point
// penalty for every hot dog or beverage away from nine in either direction.
// Always a full recompute over the hole rows, never an incremental delta.
func ComputeTotalScore(scores []entity.HoleScore) int {
	var strokes, hotDogs, beverages int

	for _, s := range scores {
		if s.Strokes != nil {
			strokes += *s.Strokes
		}

		hotDogs += s.HotDogs
		beverages += s.Beverages
	}

	return strokes +
		entity.PenaltyPerUnit*abs(entity.ConsumptionTarget-hotDogs) +
		entity.PenaltyPerUnit*abs(entity.ConsumptionTarget-beverages)
}

// MyScores returns the caller's nine hole rows in hole order.
func (s *EventService) MyScores(ctx context.Context, eventCode string, userID uuid.UUID) ([]entity.HoleScore, error) {
	event, err := s.eventRepo.FindEventByCode(ctx, eventCode)
	if err != nil {
		return nil, err
	}

	participant, err := s.eventRepo.FindParticipant(ctx, event.ID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrNotParticipant
		}

		return nil, fmt.Errorf("find participant: %w", err)
	}

	return s.eventRepo.ListHoleScores(ctx, participant.ID)
}

type GiveKudosResult struct {
	AlreadyGiven bool
}

// GiveKudos records an endorsement from an anonymous spectator session. The
// same session giving the same type to the same participant twice is a no-op;
// a different type from the same session succeeds.
func (s *EventService) GiveKudos(ctx context.Context, eventCode string, participantID uuid.UUID, kudosType, sessionID string) (GiveKudosResult, error) {
	if !entity.IsValidKudosType(kudosType) {
		return GiveKudosResult{}, entity.ErrInvalidKudosType
	}

	event, err := s.eventRepo.FindEventByCode(ctx, eventCode)
	if err != nil {
		return GiveKudosResult{}, err
	}

	participant, err := s.eventRepo.FindParticipantByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return GiveKudosResult{}, entity.ErrNotParticipant
		}

		return GiveKudosResult{}, fmt.Errorf("find participant: %w", err)
	}

	if participant.EventID != event.ID {
		return GiveKudosResult{}, entity.ErrNotParticipant
	}

	kudos := entity.Kudos{
		ID:            uuid.Must(uuid.NewV4()),
		EventID:       event.ID,
		ParticipantID: participantID,
		KudosType:     kudosType,
		SessionID:     sessionID,
	}

	given, err := s.kudosRepo.GiveKudos(ctx, kudos)
	if err != nil {
		slog.ErrorContext(ctx, "failed to give kudos",
			"event_code", eventCode, "participant_id", participantID, "kudos_type", kudosType, "error", err)
		return GiveKudosResult{}, fmt.Errorf("give kudos: %w", err)
	}

	if !given {
		return GiveKudosResult{AlreadyGiven: true}, nil
	}

	s.publisher.PublishKudosGiven(ctx, broker.KudosGivenEvent{
		EventCode:   event.EventCode,
		Participant: participantID.String(),
		KudosType:   kudosType,
	})

	slog.InfoContext(ctx, "kudos given", "event_code", eventCode, "participant_id", participantID, "kudos_type", kudosType)

	return GiveKudosResult{}, nil
}

// EventKudos returns kudos tallies grouped per participant for the event.
func (s *EventService) EventKudos(ctx context.Context, eventCode string) ([]entity.ParticipantKudos, error) {
	event, err := s.eventRepo.FindEventByCode(ctx, eventCode)
	if err != nil {
		return nil, err
	}

	return s.kudosRepo.EventKudos(ctx, event.ID)
}

// Leaderboard returns the event standings ordered by total score ascending.
// Read-only: totals are whatever the last recompute wrote.
func (s *EventService) Leaderboard(ctx context.Context, eventCode string) ([]entity.LeaderboardEntry, error) {
	event, err := s.eventRepo.FindEventByCode(ctx, eventCode)
	if err != nil {
		return nil, err
	}

	return s.eventRepo.Leaderboard(ctx, event.ID)
}

func (s *EventService) lockParticipant(participantID uuid.UUID) func() {
	s.scoreMu.Lock()

	mu, ok := s.scoreLock[participantID]
	if !ok {
		mu = &sync.Mutex{}
		s.scoreLock[participantID] = mu
	}

	s.scoreMu.Unlock()

	mu.Lock()

	return mu.Unlock
}

func randomCode(length int) string {
	max := big.NewInt(int64(len(codeCharset)))
	code := make([]byte, length)

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}

		code[i] = codeCharset[n.Int64()]
	}

	return string(code)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
