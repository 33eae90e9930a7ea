package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
)

const uniqueViolationCode = "23505"

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event entity.Event) error {
	q := `
	INSERT INTO events (id, name, description, event_code, join_code, creator_id, event_date, location, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.db.Exec(
		ctx, q,
		event.ID, event.Name, event.Description, event.EventCode, event.JoinCode,
		event.CreatorID, event.EventDate, event.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrAlreadyExists
		}

		return err
	}

	return nil
}

const selectEvent = `
SELECT id, name, description, event_code, join_code, creator_id, event_date, location, created_at
FROM events
`

func (r *EventRepository) FindEventByCode(ctx context.Context, eventCode string) (entity.Event, error) {
	return r.scanEvent(r.db.QueryRow(ctx, selectEvent+"WHERE event_code = $1", eventCode))
}

func (r *EventRepository) FindEventByJoinCode(ctx context.Context, joinCode string) (entity.Event, error) {
	return r.scanEvent(r.db.QueryRow(ctx, selectEvent+"WHERE join_code = $1", joinCode))
}

func (r *EventRepository) scanEvent(row pgx.Row) (entity.Event, error) {
	var event entity.Event

	err := row.Scan(
		&event.ID, &event.Name, &event.Description, &event.EventCode, &event.JoinCode,
		&event.CreatorID, &event.EventDate, &event.Location, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event, entity.ErrEventNotFound
		}

		return event, err
	}

	return event, nil
}

// JoinEvent inserts the participant and its nine empty hole rows in one
// transaction. The UNIQUE(user_id, event_id) constraint is the idempotence
// mechanism: a violation means the user already joined and reports false
// without error.
func (r *EventRepository) JoinEvent(ctx context.Context, participant entity.Participant) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	q := `
	INSERT INTO event_participants (id, user_id, event_id, total_score, joined_at)
	VALUES ($1, $2, $3, 0, NOW())
	`

	_, err = tx.Exec(ctx, q, participant.ID, participant.UserID, participant.EventID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}

		return false, err
	}

	holeQ := `
	INSERT INTO hole_scores (id, participant_id, hole_number, strokes, hot_dogs, beverages)
	VALUES ($1, $2, $3, NULL, 0, 0)
	`

	for hole := 1; hole <= entity.HolesPerEvent; hole++ {
		if _, err := tx.Exec(ctx, holeQ, uuid.Must(uuid.NewV4()), participant.ID, hole); err != nil {
			return false, fmt.Errorf("insert hole %d: %w", hole, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}

	return true, nil
}

func (r *EventRepository) FindParticipant(ctx context.Context, eventID, userID uuid.UUID) (entity.Participant, error) {
	q := `
	SELECT id, user_id, event_id, total_score, joined_at
	FROM event_participants
	WHERE event_id = $1 AND user_id = $2
	`

	return r.scanParticipant(r.db.QueryRow(ctx, q, eventID, userID))
}

func (r *EventRepository) FindParticipantByID(ctx context.Context, participantID uuid.UUID) (entity.Participant, error) {
	q := `
	SELECT id, user_id, event_id, total_score, joined_at
	FROM event_participants
	WHERE id = $1
	`

	return r.scanParticipant(r.db.QueryRow(ctx, q, participantID))
}

func (r *EventRepository) scanParticipant(row pgx.Row) (entity.Participant, error) {
	var p entity.Participant

	err := row.Scan(&p.ID, &p.UserID, &p.EventID, &p.TotalScore, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, entity.ErrNotFound
		}

		return p, err
	}

	return p, nil
}

// UpsertHoleScore overwrites the row for (participant, hole). The hole rows
// exist from join time, so this is normally an update; the insert arm covers
// rows missing after a partial migration.
func (r *EventRepository) UpsertHoleScore(ctx context.Context, score entity.HoleScore) error {
	q := `
	INSERT INTO hole_scores (id, participant_id, hole_number, strokes, hot_dogs, beverages, beverage_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (participant_id, hole_number)
	DO UPDATE SET strokes = $4, hot_dogs = $5, beverages = $6, beverage_type = $7
	`

	_, err := r.db.Exec(
		ctx, q,
		score.ID, score.ParticipantID, score.HoleNumber,
		score.Strokes, score.HotDogs, score.Beverages, score.BeverageType,
	)

	return err
}

func (r *EventRepository) ListHoleScores(ctx context.Context, participantID uuid.UUID) ([]entity.HoleScore, error) {
	q := `
	SELECT id, participant_id, hole_number, strokes, hot_dogs, beverages, beverage_type
	FROM hole_scores
	WHERE participant_id = $1
	ORDER BY hole_number
	`

	rows, err := r.db.Query(ctx, q, participantID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var scores []entity.HoleScore

	for rows.Next() {
		var s entity.HoleScore

		err := rows.Scan(&s.ID, &s.ParticipantID, &s.HoleNumber, &s.Strokes, &s.HotDogs, &s.Beverages, &s.BeverageType)
		if err != nil {
			return nil, err
		}

		scores = append(scores, s)
	}

	return scores, rows.Err()
}

func (r *EventRepository) UpdateTotalScore(ctx context.Context, participantID uuid.UUID, totalScore int) error {
	q := `UPDATE event_participants SET total_score = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, q, totalScore, participantID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// Leaderboard reads the cached standings for an event. Lower total score wins;
// ties go to whoever joined first.
func (r *EventRepository) Leaderboard(ctx context.Context, eventID uuid.UUID) ([]entity.LeaderboardEntry, error) {
	stmt := sq.Select(
		"ep.id",
		"COALESCE(u.display_name, '***-' || RIGHT(u.phone_number, 4)) AS display_name",
		"ep.total_score",
		"COALESCE(SUM(hs.strokes), 0) AS total_strokes",
		"COALESCE(SUM(hs.hot_dogs), 0) AS total_hot_dogs",
		"COALESCE(SUM(hs.beverages), 0) AS total_beverages",
		"(SELECT COUNT(*) FROM kudos k WHERE k.participant_id = ep.id) AS total_kudos",
	).
		From("event_participants ep").
		Join("users u ON u.id = ep.user_id").
		LeftJoin("hole_scores hs ON hs.participant_id = ep.id").
		Where(sq.Eq{"ep.event_id": eventID}).
		GroupBy("ep.id", "u.display_name", "u.phone_number", "ep.total_score", "ep.joined_at").
		OrderBy("ep.total_score ASC", "ep.joined_at ASC").
		PlaceholderFormat(sq.Dollar)

	q, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var entries []entity.LeaderboardEntry

	for rows.Next() {
		var e entity.LeaderboardEntry

		err := rows.Scan(
			&e.ParticipantID, &e.DisplayName, &e.TotalScore,
			&e.TotalStrokes, &e.TotalHotDogs, &e.TotalBeverages, &e.TotalKudos,
		)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
