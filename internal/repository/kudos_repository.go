package repository

import (
	"context"

	uuid "github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
)

type KudosRepository struct {
	db *pgxpool.Pool
}

func NewKudosRepository(db *pgxpool.Pool) *KudosRepository {
	return &KudosRepository{db: db}
}

// GiveKudos inserts the endorsement. The UNIQUE(session_id, participant_id,
// kudos_type) constraint deduplicates repeat givers; a violation reports false
// without error.
func (r *KudosRepository) GiveKudos(ctx context.Context, kudos entity.Kudos) (bool, error) {
	q := `
	INSERT INTO kudos (id, event_id, participant_id, kudos_type, session_id, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := r.db.Exec(ctx, q, kudos.ID, kudos.EventID, kudos.ParticipantID, kudos.KudosType, kudos.SessionID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// EventKudos returns kudos tallies grouped per participant, most endorsed
// participants first.
func (r *KudosRepository) EventKudos(ctx context.Context, eventID uuid.UUID) ([]entity.ParticipantKudos, error) {
	q := `
	SELECT
		k.participant_id,
		COALESCE(u.display_name, '***-' || RIGHT(u.phone_number, 4)) AS display_name,
		k.kudos_type,
		COUNT(*) AS cnt
	FROM kudos k
	JOIN event_participants ep ON ep.id = k.participant_id
	JOIN users u ON u.id = ep.user_id
	WHERE k.event_id = $1
	GROUP BY k.participant_id, u.display_name, u.phone_number, k.kudos_type
	ORDER BY k.participant_id, cnt DESC
	`

	rows, err := r.db.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	byParticipant := make(map[uuid.UUID]*entity.ParticipantKudos)

	var order []uuid.UUID

	for rows.Next() {
		var (
			participantID uuid.UUID
			displayName   string
			kudosType     string
			count         int
		)

		if err := rows.Scan(&participantID, &displayName, &kudosType, &count); err != nil {
			return nil, err
		}

		pk, ok := byParticipant[participantID]
		if !ok {
			pk = &entity.ParticipantKudos{ParticipantID: participantID, DisplayName: displayName}
			byParticipant[participantID] = pk
			order = append(order, participantID)
		}

		pk.Tallies = append(pk.Tallies, entity.KudosTally{KudosType: kudosType, Count: count})
		pk.Total += count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]entity.ParticipantKudos, 0, len(order))
	for _, id := range order {
		result = append(result, *byParticipant[id])
	}

	return result, nil
}
