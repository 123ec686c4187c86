package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

type stubNower struct {
	now time.Time
}

func (s stubNower) Now() time.Time {
	return s.now
}

func newMockStorage(t *testing.T) (*Storage, pgxmock.PgxPoolIface, stubNower) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	nower := stubNower{now: time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)}
	return New(mock, nower), mock, nower
}

func roomRows(rooms ...domain.Room) *pgxmock.Rows {
	rows := pgxmock.NewRows(roomColumns)
	for _, r := range rooms {
		rows.AddRow(r.ID, r.Name, r.ParticipantNames, r.PriceLimit, string(r.Currency),
			string(r.Language), r.IsDrawn, r.AdminToken, r.OwnerID, r.CreatedAt)
	}
	return rows
}

func assignmentRows(assignments ...domain.Assignment) *pgxmock.Rows {
	rows := pgxmock.NewRows(assignmentColumns)
	for _, a := range assignments {
		rows.AddRow(a.ID, a.RoomID, a.ParticipantName, a.DrawnName, a.ParticipantToken, a.Wishes, a.HasViewed)
	}
	return rows
}

func sampleRoom(now time.Time) domain.Room {
	return domain.Room{
		ID:               "room-1",
		Name:             "Office",
		ParticipantNames: []string{"Anna", "Ben", "Clara"},
		PriceLimit:       25,
		Currency:         domain.CurrencyEUR,
		Language:         domain.LanguageDE,
		IsDrawn:          true,
		AdminToken:       "admin-token",
		OwnerID:          "owner-1",
		CreatedAt:        now,
	}
}

func TestStorageCreateRoomSetsCreatedDate(t *testing.T) {
	storage, mock, n := newMockStorage(t)
	room := sampleRoom(time.Time{})

	mock.ExpectExec(`INSERT INTO rooms`).
		WithArgs("room-1", "Office", []string{"Anna", "Ben", "Clara"}, 25.0, "EUR", "de", true, "admin-token", "owner-1", n.now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := storage.CreateRoom(context.Background(), room)
	require.NoError(t, err)
	require.Equal(t, n.now, created.CreatedAt)
	require.Equal(t, "room-1", created.ID)
}

func TestStorageCreateRoomWrapsDriverError(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectExec(`INSERT INTO rooms`).WillReturnError(errors.New("duplicate key"))

	_, err := storage.CreateRoom(context.Background(), sampleRoom(time.Time{}))
	require.ErrorIs(t, err, ErrExecuteQuery)
}

func TestStorageGetRoomByID(t *testing.T) {
	storage, mock, n := newMockStorage(t)
	room := sampleRoom(n.now)

	mock.ExpectQuery(`SELECT id, room_name, .* FROM rooms WHERE id = \$1`).WithArgs("room-1").
		WillReturnRows(roomRows(room))

	got, err := storage.GetRoomByID(context.Background(), "room-1")
	require.NoError(t, err)
	require.Equal(t, room, got)
}

func TestStorageGetRoomByAdminTokenNotFound(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`FROM rooms WHERE admin_token = \$1`).WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.GetRoomByAdminToken(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestStorageLockRoomUsesForUpdate(t *testing.T) {
	storage, mock, n := newMockStorage(t)

	mock.ExpectQuery(`FROM rooms WHERE id = \$1 FOR UPDATE`).WithArgs("room-1").
		WillReturnRows(roomRows(sampleRoom(n.now)))

	room, err := storage.LockRoom(context.Background(), "room-1")
	require.NoError(t, err)
	require.Equal(t, "room-1", room.ID)
}

func TestStorageListRoomsByOwner(t *testing.T) {
	storage, mock, n := newMockStorage(t)
	newer := sampleRoom(n.now)
	older := sampleRoom(n.now.Add(-time.Hour))
	older.ID = "room-0"

	mock.ExpectQuery(`FROM rooms WHERE owner_id = \$1 ORDER BY created_date DESC`).WithArgs("owner-1").
		WillReturnRows(roomRows(newer, older))

	rooms, err := storage.ListRoomsByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	require.Equal(t, "room-1", rooms[0].ID)
	require.Equal(t, "room-0", rooms[1].ID)
}

func TestStorageListRoomsByOwnerEmpty(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`FROM rooms WHERE owner_id`).WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows(roomColumns))

	rooms, err := storage.ListRoomsByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, rooms)
	require.Empty(t, rooms)
}

func TestStorageUpdateRoomSetsOnlyGivenFields(t *testing.T) {
	storage, mock, n := newMockStorage(t)
	updated := sampleRoom(n.now)
	updated.Name = "Family"

	mock.ExpectQuery(`UPDATE rooms SET room_name = \$1 WHERE id = \$2 RETURNING id, room_name`).
		WithArgs("Family", "room-1").
		WillReturnRows(roomRows(updated))

	name := "Family"
	room, err := storage.UpdateRoom(context.Background(), "room-1", domain.RoomPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Family", room.Name)
}

func TestStorageUpdateRoomNotFound(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`UPDATE rooms SET price_limit = \$1 WHERE id = \$2`).
		WithArgs(10.0, "ghost").
		WillReturnError(pgx.ErrNoRows)

	price := 10.0
	_, err := storage.UpdateRoom(context.Background(), "ghost", domain.RoomPatch{PriceLimit: &price})
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestStorageMarkRoomDrawn(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectExec(`UPDATE rooms SET is_drawn = \$1 WHERE id = \$2`).WithArgs(true, "room-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, storage.MarkRoomDrawn(context.Background(), "room-1"))

	mock.ExpectExec(`UPDATE rooms SET is_drawn`).WithArgs(true, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, storage.MarkRoomDrawn(context.Background(), "ghost"), domain.ErrRoomNotFound)
}

func TestStorageDeleteRoomRemovesAssignmentsFirst(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec(`DELETE FROM assignments WHERE room_id = \$1`).WithArgs("room-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	batch.ExpectExec(`DELETE FROM rooms WHERE id = \$1`).WithArgs("room-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, storage.DeleteRoom(context.Background(), "room-1"))
}

func TestStorageDeleteRoomNotFound(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec(`DELETE FROM assignments`).WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	batch.ExpectExec(`DELETE FROM rooms`).WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, storage.DeleteRoom(context.Background(), "ghost"), domain.ErrRoomNotFound)
}

func TestStorageCreateAssignmentsBatch(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec(`INSERT INTO assignments`).
		WithArgs("a1", "room-1", "Anna", "Ben", "t1", []string{}, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec(`INSERT INTO assignments`).
		WithArgs("a2", "room-1", "Ben", "Anna", "t2", []string{}, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := storage.CreateAssignments(context.Background(), []domain.Assignment{
		{ID: "a1", RoomID: "room-1", ParticipantName: "Anna", DrawnName: "Ben", ParticipantToken: "t1"},
		{ID: "a2", RoomID: "room-1", ParticipantName: "Ben", DrawnName: "Anna", ParticipantToken: "t2"},
	})
	require.NoError(t, err)
}

func TestStorageCreateAssignmentsEmptyIsNoop(t *testing.T) {
	storage, _, _ := newMockStorage(t)
	require.NoError(t, storage.CreateAssignments(context.Background(), nil))
}

func TestStorageListAssignmentsByRoomOrdersByParticipantList(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`SELECT a\.id, .* FROM assignments a JOIN rooms r ON r\.id = a\.room_id WHERE a\.room_id = \$1 ORDER BY array_position`).
		WithArgs("room-1").
		WillReturnRows(assignmentRows(
			domain.Assignment{ID: "a1", RoomID: "room-1", ParticipantName: "Anna", DrawnName: "Ben", ParticipantToken: "t1", Wishes: []string{"book"}},
			domain.Assignment{ID: "a2", RoomID: "room-1", ParticipantName: "Ben", DrawnName: "Anna", ParticipantToken: "t2", Wishes: nil, HasViewed: true},
		))

	assignments, err := storage.ListAssignmentsByRoom(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, []string{"book"}, assignments[0].Wishes)
	require.Equal(t, []string{}, assignments[1].Wishes)
	require.True(t, assignments[1].HasViewed)
}

func TestStorageGetAssignmentByTokenNotFound(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`FROM assignments WHERE participant_token = \$1`).WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.GetAssignmentByToken(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrAssignmentNotFound)
}

func TestStorageGetWishes(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`SELECT wishes FROM assignments WHERE participant_name = \$1 AND room_id = \$2`).
		WithArgs("Ben", "room-1").
		WillReturnRows(pgxmock.NewRows([]string{"wishes"}).AddRow([]string{"socks", "tea"}))

	wishes, err := storage.GetWishes(context.Background(), "room-1", "Ben")
	require.NoError(t, err)
	require.Equal(t, []string{"socks", "tea"}, wishes)
}

func TestStorageGetWishesMissingParticipant(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`SELECT wishes FROM assignments`).WithArgs("Ghost", "room-1").
		WillReturnError(pgx.ErrNoRows)

	wishes, err := storage.GetWishes(context.Background(), "room-1", "Ghost")
	require.NoError(t, err)
	require.Empty(t, wishes)
}

func TestStorageUpdateDrawnNamesResetsViewed(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec(`UPDATE assignments SET drawn_name = \$1, has_viewed = \$2 WHERE id = \$3`).
		WithArgs("Clara", false, "a1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	batch.ExpectExec(`UPDATE assignments SET drawn_name = \$1, has_viewed = \$2 WHERE id = \$3`).
		WithArgs("Anna", false, "a2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := storage.UpdateDrawnNames(context.Background(), []domain.Assignment{
		{ID: "a1", DrawnName: "Clara"},
		{ID: "a2", DrawnName: "Anna"},
	})
	require.NoError(t, err)
}

func TestStorageMarkViewed(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`UPDATE assignments SET has_viewed = \$1 WHERE participant_token = \$2 RETURNING id`).
		WithArgs(true, "t1").
		WillReturnRows(assignmentRows(domain.Assignment{
			ID: "a1", RoomID: "room-1", ParticipantName: "Anna", DrawnName: "Ben", ParticipantToken: "t1", Wishes: []string{}, HasViewed: true,
		}))

	a, err := storage.MarkViewed(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, a.HasViewed)
}

func TestStorageUpdateWishesNotFound(t *testing.T) {
	storage, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`UPDATE assignments SET wishes = \$1 WHERE participant_token = \$2`).
		WithArgs([]string{}, "nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.UpdateWishes(context.Background(), "nope", nil)
	require.ErrorIs(t, err, domain.ErrAssignmentNotFound)
}

func TestStoragePingAndClose(t *testing.T) {
	storage, mock, _ := newMockStorage(t)
	ctx := context.Background()

	mock.ExpectPing().WillReturnError(nil)
	require.NoError(t, storage.Ping(ctx))

	mock.ExpectClose()
	storage.Close()
}
