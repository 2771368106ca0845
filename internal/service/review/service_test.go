package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/domain/srs"
	"github.com/phrazzld/vocab-srs/internal/mocks"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/session"
	"github.com/phrazzld/vocab-srs/internal/store"
	"github.com/phrazzld/vocab-srs/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *ReviewService
	progress *mocks.MockProgressStore
	lists    *mocks.MockListStore
	clock    *clock.Manual
	userID   uuid.UUID
	list     domain.WordList
	words    []domain.Word
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, _ := logger.NewRecorder()
	progress := mocks.NewMockProgressStore()
	lists := &mocks.MockListStore{Progress: progress}
	clk := clock.NewManual(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	persister := task.NewAsyncPersister(progress, task.DefaultPersisterConfig(), log)
	t.Cleanup(func() { _ = persister.Close(context.Background()) })

	svc := NewReviewService(progress, lists, scheduler, persister, Config{IdleTimeout: time.Hour}, log,
		WithClock(clk),
		WithOrdererFactory(func() session.Orderer { return session.KeepOrder }),
	)

	userID := uuid.New()
	list := &domain.WordList{UserID: userID, Name: "GRE"}
	words := []domain.Word{
		{Term: "abate", Definition: "to lessen"},
		{Term: "laconic", Definition: "using few words"},
		{Term: "mendacious", Definition: "untruthful"},
	}
	require.NoError(t, svc.CreateList(context.Background(), list, words))

	return &fixture{
		svc:      svc,
		progress: progress,
		lists:    lists,
		clock:    clk,
		userID:   userID,
		list:     *list,
		words:    words,
	}
}

func TestStartSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)
	assert.Equal(t, session.InProgress, snap.State)
	assert.Equal(t, 3, snap.Total)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "abate", snap.Current.Word.Term)
	assert.Equal(t, 1, f.svc.ActiveSessions())

	got, err := f.svc.GetSession(ctx, f.userID, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
}

func TestStartSession_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartSession(ctx, f.userID, uuid.New(), session.ModeQuiz)
	assert.ErrorIs(t, err, store.ErrListNotFound)

	_, err = f.svc.StartSession(ctx, uuid.New(), f.list.ID, session.ModeQuiz)
	assert.ErrorIs(t, err, store.ErrListNotFound, "lists of other users are invisible")

	_, err = f.svc.StartSession(ctx, f.userID, f.list.ID, session.Mode("exam"))
	assert.ErrorIs(t, err, session.ErrInvalidMode)

	empty := &domain.WordList{UserID: f.userID, Name: "empty"}
	require.NoError(t, f.svc.CreateList(ctx, empty, nil))
	_, err = f.svc.StartSession(ctx, f.userID, empty.ID, session.ModeFlashcards)
	assert.ErrorIs(t, err, session.ErrEmptyList)
	assert.Equal(t, 0, f.svc.ActiveSessions())

	boom := errors.New("db down")
	f.progress.FetchReviewItemsFn = func(context.Context, uuid.UUID, uuid.UUID) ([]domain.ReviewItem, error) {
		return nil, boom
	}
	_, err = f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "start_session", svcErr.Operation)
	assert.ErrorIs(t, err, boom)
}

func TestQuizScenarioPersistsSchedules(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)

	var last *SubmitResult
	for _, knew := range []bool{true, false, true} {
		last, err = f.svc.SubmitJudgment(ctx, f.userID, snap.ID, session.Recall(knew))
		require.NoError(t, err)
		require.NoError(t, last.Submission.Persisted.Wait(ctx))
	}

	require.True(t, last.Submission.Completed)
	require.NotNil(t, last.Submission.Score)
	assert.Equal(t, session.Score{Correct: 2, Total: 3, Percentage: 67}, *last.Submission.Score)
	assert.Equal(t, session.Completed, last.Session.State)
	assert.Equal(t, 3, f.progress.UpsertCount())

	first, ok := f.progress.Schedule(f.words[0].ID)
	require.True(t, ok)
	assert.Equal(t, 1, first.Interval)
	assert.Equal(t, 1, first.Repetitions)
	assert.InDelta(t, 2.6, first.EaseFactor, 1e-9)
	assert.Equal(t, f.userID, first.UserID)

	missed, ok := f.progress.Schedule(f.words[1].ID)
	require.True(t, ok)
	assert.Equal(t, 0, missed.Repetitions)
	assert.InDelta(t, 2.3, missed.EaseFactor, 1e-9)
}

func TestSubmitJudgment_OwnershipAndMissing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeFlashcards)
	require.NoError(t, err)

	_, err = f.svc.SubmitJudgment(ctx, uuid.New(), snap.ID, session.Grade(4))
	assert.ErrorIs(t, err, ErrSessionNotOwned)

	_, err = f.svc.SubmitJudgment(ctx, f.userID, uuid.New(), session.Grade(4))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.SubmitJudgment(ctx, f.userID, snap.ID, session.Grade(9))
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
	assert.Equal(t, 0, f.progress.UpsertCount())
}

func TestSubmitJudgment_StorageFailureKeepsLocalState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.progress.UpsertErr = store.NewStoreError("schedule", "upsert", "write failed", store.ErrStorage)

	snap, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)

	res, err := f.svc.SubmitJudgment(ctx, f.userID, snap.ID, session.Recall(true))
	require.NoError(t, err)
	assert.ErrorIs(t, res.Submission.Persisted.Wait(ctx), store.ErrStorage)

	got, err := f.svc.GetSession(ctx, f.userID, snap.ID)
	require.NoError(t, err)
	assert.Len(t, got.Judgments, 1)
	assert.Equal(t, 1, got.Persist.Failed)
}

func TestAdvance(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cards, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeFlashcards)
	require.NoError(t, err)

	snap, err := f.svc.Advance(ctx, f.userID, cards.ID, session.Forward)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Index)

	snap, err = f.svc.Advance(ctx, f.userID, cards.ID, session.Backward)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Index)

	quiz, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, f.userID, quiz.ID, session.Forward)
	assert.ErrorIs(t, err, session.ErrWrongMode)
}

func TestResetAndEndSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)
	_, err = f.svc.SubmitJudgment(ctx, f.userID, snap.ID, session.Recall(true))
	require.NoError(t, err)

	reset, err := f.svc.ResetSession(ctx, f.userID, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reset.Index)
	assert.Empty(t, reset.Judgments)

	assert.ErrorIs(t, f.svc.EndSession(ctx, uuid.New(), snap.ID), ErrSessionNotOwned)
	require.NoError(t, f.svc.EndSession(ctx, f.userID, snap.ID))
	_, err = f.svc.GetSession(ctx, f.userID, snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartDueSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	_, err := f.svc.StartDueSession(ctx, f.userID, session.ModeFlashcards)
	assert.ErrorIs(t, err, ErrNothingDue)

	for i, offset := range []int{-1, -3, 2} {
		st := domain.NewScheduleState(f.userID, f.words[i].ID)
		st.Interval = 1
		st.Repetitions = 1
		st.NextReviewAt = now.AddDate(0, 0, offset)
		f.progress.SetSchedule(st)
	}

	snap, err := f.svc.StartDueSession(ctx, f.userID, session.ModeFlashcards)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Total)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "laconic", snap.Current.Word.Term, "most overdue first")
}

func TestOverviewAndSuggestions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	other := &domain.WordList{UserID: f.userID, Name: "SAT"}
	otherWords := []domain.Word{{Term: "zeal", Definition: "passion"}}
	require.NoError(t, f.svc.CreateList(ctx, other, otherWords))

	for i, w := range f.words {
		st := domain.NewScheduleState(f.userID, w.ID)
		st.Repetitions = 5 + i
		st.LastReviewedAt = now
		st.NextReviewAt = now.AddDate(0, 0, 10)
		f.progress.SetSchedule(st)
	}

	ov, err := f.svc.Overview(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDailyGoal, ov.DailyGoal)
	assert.Equal(t, 3, ov.WordsReviewedToday)
	assert.Equal(t, 3, ov.TotalWords)
	assert.Equal(t, 3, ov.MasteredWords)
	assert.Equal(t, 1, ov.StreakDays)

	suggested, err := f.svc.SuggestedLists(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, f.list.ID, suggested[0].ID)

	lists, err := f.svc.Lists(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, lists, 2)
}

func TestCreateList_Duplicate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.svc.CreateList(context.Background(), &domain.WordList{UserID: f.userID, Name: "GRE"}, nil)
	assert.ErrorIs(t, err, store.ErrListExists)
}

func TestEvictIdle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	stale, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)

	f.clock.Advance(45 * time.Minute)
	fresh, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, f.svc.EvictIdle())

	_, err = f.svc.GetSession(ctx, f.userID, stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.GetSession(ctx, f.userID, fresh.ID)
	assert.NoError(t, err)
}

func TestSweeperEvictsOnStart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartSession(ctx, f.userID, f.list.ID, session.ModeQuiz)
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	sweeper := NewSweeper(f.svc, 1, nil)
	require.NoError(t, sweeper.Start())
	t.Cleanup(sweeper.Stop)

	assert.Eventually(t, func() bool { return f.svc.ActiveSessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewReviewService_PanicsOnNilDeps(t *testing.T) {
	t.Parallel()
	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)
	progress := mocks.NewMockProgressStore()
	persister := task.NewAsyncPersister(progress, task.DefaultPersisterConfig(), nil)
	t.Cleanup(func() { _ = persister.Close(context.Background()) })

	assert.Panics(t, func() { NewReviewService(nil, &mocks.MockListStore{}, scheduler, persister, Config{}, nil) })
	assert.Panics(t, func() { NewReviewService(progress, nil, scheduler, persister, Config{}, nil) })
	assert.Panics(t, func() { NewReviewService(progress, &mocks.MockListStore{}, nil, persister, Config{}, nil) })
	assert.Panics(t, func() { NewReviewService(progress, &mocks.MockListStore{}, scheduler, nil, Config{}, nil) })
}
