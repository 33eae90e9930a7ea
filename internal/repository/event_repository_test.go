package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/suite"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/repository"
)

type EventRepositoryTestSuite struct {
	suite.Suite
	users *repository.UserRepository
	repo  *repository.EventRepository
}

func (ts *EventRepositoryTestSuite) SetupTest() {
	db := repository.SetupTestDatabase(ts.T())
	ts.users = repository.NewUserRepository(db)
	ts.repo = repository.NewEventRepository(db)
}

func TestEventRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(EventRepositoryTestSuite))
}

func (ts *EventRepositoryTestSuite) createUser(displayName string) entity.User {
	user := entity.User{
		ID:             uuid.Must(uuid.NewV4()),
		PhoneNumber:    testPhone(),
		ProviderUserID: "user-test-provider-id",
	}

	if displayName != "" {
		user.DisplayName = &displayName
	}

	ts.Require().NoError(ts.users.CreateUser(context.Background(), user))

	return user
}

func (ts *EventRepositoryTestSuite) createEvent(creatorID uuid.UUID, eventCode, joinCode string) entity.Event {
	event := entity.Event{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      "Saturday 9/9/9",
		EventCode: eventCode,
		JoinCode:  joinCode,
		CreatorID: creatorID,
		EventDate: time.Now().Add(24 * time.Hour),
	}

	ts.Require().NoError(ts.repo.CreateEvent(context.Background(), event))

	return event
}

func (ts *EventRepositoryTestSuite) TestCreateAndFindEvent() {
	ctx := context.Background()
	creator := ts.createUser("")
	event := ts.createEvent(creator.ID, "EVNTCODE", "JOIN01")

	byCode, err := ts.repo.FindEventByCode(ctx, "EVNTCODE")
	ts.Require().NoError(err)
	ts.Require().Equal(event.ID, byCode.ID)

	byJoin, err := ts.repo.FindEventByJoinCode(ctx, "JOIN01")
	ts.Require().NoError(err)
	ts.Require().Equal(event.ID, byJoin.ID)

	_, err = ts.repo.FindEventByCode(ctx, "MISSING1")
	ts.Require().ErrorIs(err, entity.ErrEventNotFound)
}

func (ts *EventRepositoryTestSuite) TestCreateEventDuplicateCode() {
	creator := ts.createUser("")
	ts.createEvent(creator.ID, "EVNTCODE", "JOIN01")

	dup := entity.Event{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      "Duplicate",
		EventCode: "EVNTCODE",
		JoinCode:  "JOIN02",
		CreatorID: creator.ID,
		EventDate: time.Now(),
	}

	err := ts.repo.CreateEvent(context.Background(), dup)
	ts.Require().ErrorIs(err, entity.ErrAlreadyExists)
}

func (ts *EventRepositoryTestSuite) TestJoinCreatesNineHoles() {
	ctx := context.Background()
	creator := ts.createUser("")
	event := ts.createEvent(creator.ID, "EVNTCODE", "JOIN01")

	participant := entity.Participant{
		ID:      uuid.Must(uuid.NewV4()),
		UserID:  creator.ID,
		EventID: event.ID,
	}

	joined, err := ts.repo.JoinEvent(ctx, participant)
	ts.Require().NoError(err)
	ts.Require().True(joined)

	scores, err := ts.repo.ListHoleScores(ctx, participant.ID)
	ts.Require().NoError(err)
	ts.Require().Len(scores, entity.HolesPerEvent)

	for i, score := range scores {
		ts.Require().Equal(i+1, score.HoleNumber)
		ts.Require().Nil(score.Strokes)
		ts.Require().Zero(score.HotDogs)
		ts.Require().Zero(score.Beverages)
	}
}

func (ts *EventRepositoryTestSuite) TestJoinTwiceIsIdempotent() {
	ctx := context.Background()
	creator := ts.createUser("")
	event := ts.createEvent(creator.ID, "EVNTCODE", "JOIN01")

	first := entity.Participant{ID: uuid.Must(uuid.NewV4()), UserID: creator.ID, EventID: event.ID}

	joined, err := ts.repo.JoinEvent(ctx, first)
	ts.Require().NoError(err)
	ts.Require().True(joined)

	second := entity.Participant{ID: uuid.Must(uuid.NewV4()), UserID: creator.ID, EventID: event.ID}

	joined, err = ts.repo.JoinEvent(ctx, second)
	ts.Require().NoError(err)
	ts.Require().False(joined)

	// The second attempt must not leave extra hole rows behind.
	scores, err := ts.repo.ListHoleScores(ctx, second.ID)
	ts.Require().NoError(err)
	ts.Require().Empty(scores)

	found, err := ts.repo.FindParticipant(ctx, event.ID, creator.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(first.ID, found.ID)
}

func (ts *EventRepositoryTestSuite) TestUpsertHoleScoreOverwrites() {
	ctx := context.Background()
	creator := ts.createUser("")
	event := ts.createEvent(creator.ID, "EVNTCODE", "JOIN01")

	participant := entity.Participant{ID: uuid.Must(uuid.NewV4()), UserID: creator.ID, EventID: event.ID}

	_, err := ts.repo.JoinEvent(ctx, participant)
	ts.Require().NoError(err)

	strokes := 5
	beverageType := "lager"

	err = ts.repo.UpsertHoleScore(ctx, entity.HoleScore{
		ID:            uuid.Must(uuid.NewV4()),
		ParticipantID: participant.ID,
		HoleNumber:    3,
		Strokes:       &strokes,
		HotDogs:       2,
		Beverages:     1,
		BeverageType:  &beverageType,
	})
	ts.Require().NoError(err)

	strokes = 4

	err = ts.repo.UpsertHoleScore(ctx, entity.HoleScore{
		ID:            uuid.Must(uuid.NewV4()),
		ParticipantID: participant.ID,
		HoleNumber:    3,
		Strokes:       &strokes,
		HotDogs:       1,
		Beverages:     2,
	})
	ts.Require().NoError(err)

	scores, err := ts.repo.ListHoleScores(ctx, participant.ID)
	ts.Require().NoError(err)
	ts.Require().Len(scores, entity.HolesPerEvent)

	hole3 := scores[2]
	ts.Require().Equal(3, hole3.HoleNumber)
	ts.Require().NotNil(hole3.Strokes)
	ts.Require().Equal(4, *hole3.Strokes)
	ts.Require().Equal(1, hole3.HotDogs)
	ts.Require().Equal(2, hole3.Beverages)
	ts.Require().Nil(hole3.BeverageType)
}

func (ts *EventRepositoryTestSuite) TestLeaderboardOrderingAndTieBreak() {
	ctx := context.Background()
	creator := ts.createUser("Creator")
	event := ts.createEvent(creator.ID, "EVNTCODE", "JOIN01")

	early := ts.createUser("Early Bird")
	late := ts.createUser("Late Arrival")
	leader := ts.createUser("")

	earlyP := entity.Participant{ID: uuid.Must(uuid.NewV4()), UserID: early.ID, EventID: event.ID}
	_, err := ts.repo.JoinEvent(ctx, earlyP)
	ts.Require().NoError(err)

	lateP := entity.Participant{ID: uuid.Must(uuid.NewV4()), UserID: late.ID, EventID: event.ID}
	_, err = ts.repo.JoinEvent(ctx, lateP)
	ts.Require().NoError(err)

	leaderP := entity.Participant{ID: uuid.Must(uuid.NewV4()), UserID: leader.ID, EventID: event.ID}
	_, err = ts.repo.JoinEvent(ctx, leaderP)
	ts.Require().NoError(err)

	ts.Require().NoError(ts.repo.UpdateTotalScore(ctx, earlyP.ID, 90))
	ts.Require().NoError(ts.repo.UpdateTotalScore(ctx, lateP.ID, 90))
	ts.Require().NoError(ts.repo.UpdateTotalScore(ctx, leaderP.ID, 45))

	entries, err := ts.repo.Leaderboard(ctx, event.ID)
	ts.Require().NoError(err)
	ts.Require().Len(entries, 3)

	// Lowest score first; equal scores ordered by join time.
	ts.Require().Equal(leaderP.ID, entries[0].ParticipantID)
	ts.Require().Equal(45, entries[0].TotalScore)
	ts.Require().Equal(earlyP.ID, entries[1].ParticipantID)
	ts.Require().Equal(lateP.ID, entries[2].ParticipantID)

	// No display name falls back to the masked phone.
	ts.Require().Equal("***-"+leader.PhoneNumber[len(leader.PhoneNumber)-4:], entries[0].DisplayName)
	ts.Require().Equal("Early Bird", entries[1].DisplayName)
}
