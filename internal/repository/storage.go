package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/infrastructure/nower"
)

const (
	roomsTable       = "rooms"
	assignmentsTable = "assignments"
)

var (
	roomColumns = []string{
		"id", "room_name", "participant_names", "price_limit", "currency",
		"language", "is_drawn", "admin_token", "owner_id", "created_date",
	}
	assignmentColumns = []string{
		"id", "room_id", "participant_name", "drawn_name", "participant_token", "wishes", "has_viewed",
	}
)

type pgxPool interface {
	trmpgx.Tr
	Close()
	Ping(ctx context.Context) error
}

// Storage инкапсулирует работу с PostgreSQL.
// Если в контексте есть транзакция trm, запросы идут через неё, иначе через пул.
type Storage struct {
	pool   pgxPool
	getter *trmpgx.CtxGetter
	nower  nower.Nower
	sb     squirrel.StatementBuilderType
}

// New создаёт новый слой хранения.
func New(pool pgxPool, nower nower.Nower) *Storage {
	return &Storage{
		pool:   pool,
		getter: trmpgx.DefaultCtxGetter,
		nower:  nower,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Close освобождает соединения пула.
func (s *Storage) Close() {
	s.pool.Close()
}

// Ping проверяет доступность подключения к БД.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) conn(ctx context.Context) trmpgx.Tr {
	return s.getter.DefaultTrOrDB(ctx, s.pool)
}

// CreateRoom сохраняет комнату; created_date выставляется здесь.
func (s *Storage) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	room.CreatedAt = s.nower.Now()
	query, args, err := s.sb.
		Insert(roomsTable).
		Columns(roomColumns...).
		Values(
			room.ID, room.Name, room.ParticipantNames, room.PriceLimit, string(room.Currency),
			string(room.Language), room.IsDrawn, room.AdminToken, room.OwnerID, room.CreatedAt,
		).
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build insert room query", "error", err)
		return domain.Room{}, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	if _, err := s.conn(ctx).Exec(ctx, query, args...); err != nil {
		slog.ErrorContext(ctx, "failed to insert room", "error", err)
		return domain.Room{}, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return room, nil
}

// GetRoomByID возвращает комнату по идентификатору.
func (s *Storage) GetRoomByID(ctx context.Context, roomID string) (domain.Room, error) {
	return s.getRoom(ctx, s.sb.Select(roomColumns...).From(roomsTable).Where(squirrel.Eq{"id": roomID}))
}

// GetRoomByAdminToken возвращает комнату по токену администратора.
func (s *Storage) GetRoomByAdminToken(ctx context.Context, adminToken string) (domain.Room, error) {
	return s.getRoom(ctx, s.sb.Select(roomColumns...).From(roomsTable).Where(squirrel.Eq{"admin_token": adminToken}))
}

// LockRoom читает комнату с блокировкой строки до конца транзакции.
// Вне транзакции блокировка снимается сразу, поэтому вызывать её нужно внутри trm.Manager.Do.
func (s *Storage) LockRoom(ctx context.Context, roomID string) (domain.Room, error) {
	return s.getRoom(ctx, s.sb.Select(roomColumns...).From(roomsTable).Where(squirrel.Eq{"id": roomID}).Suffix("FOR UPDATE"))
}

func (s *Storage) getRoom(ctx context.Context, builder squirrel.SelectBuilder) (domain.Room, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select room query", "error", err)
		return domain.Room{}, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	room, err := scanRoom(s.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		slog.ErrorContext(ctx, "failed to select room", "error", err)
		return domain.Room{}, fmt.Errorf("%w: %v", ErrScanResult, err)
	}
	return room, nil
}

// ListRoomsByOwner возвращает комнаты организатора, новые первыми.
func (s *Storage) ListRoomsByOwner(ctx context.Context, ownerID string) ([]domain.Room, error) {
	query, args, err := s.sb.
		Select(roomColumns...).
		From(roomsTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_date DESC", "id ASC").
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build list rooms query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query rooms", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			slog.ErrorContext(ctx, "failed to scan room", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return rooms, nil
}

// UpdateRoom меняет название и/или лимит цены и возвращает обновлённую комнату.
func (s *Storage) UpdateRoom(ctx context.Context, roomID string, patch domain.RoomPatch) (domain.Room, error) {
	builder := s.sb.Update(roomsTable).Where(squirrel.Eq{"id": roomID}).Suffix("RETURNING " + joinColumns(roomColumns))
	if patch.Name != nil {
		builder = builder.Set("room_name", *patch.Name)
	}
	if patch.PriceLimit != nil {
		builder = builder.Set("price_limit", *patch.PriceLimit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build update room query", "error", err)
		return domain.Room{}, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	room, err := scanRoom(s.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		slog.ErrorContext(ctx, "failed to update room", "error", err)
		return domain.Room{}, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return room, nil
}

// MarkRoomDrawn выставляет is_drawn.
func (s *Storage) MarkRoomDrawn(ctx context.Context, roomID string) error {
	query, args, err := s.sb.
		Update(roomsTable).
		Set("is_drawn", true).
		Where(squirrel.Eq{"id": roomID}).
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build mark drawn query", "error", err)
		return fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	tag, err := s.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark room drawn", "error", err)
		return fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// DeleteRoom удаляет назначения комнаты и саму комнату одним батчем.
func (s *Storage) DeleteRoom(ctx context.Context, roomID string) error {
	delAssignments, delAssignmentsArgs, err := s.sb.Delete(assignmentsTable).Where(squirrel.Eq{"room_id": roomID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	delRoom, delRoomArgs, err := s.sb.Delete(roomsTable).Where(squirrel.Eq{"id": roomID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(delAssignments, delAssignmentsArgs...)
	batch.Queue(delRoom, delRoomArgs...)

	results := s.conn(ctx).SendBatch(ctx, batch)
	defer results.Close()

	if _, err := results.Exec(); err != nil {
		slog.ErrorContext(ctx, "failed to delete assignments", "error", err)
		return fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	tag, err := results.Exec()
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete room", "error", err)
		return fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// CreateAssignments сохраняет назначения комнаты одним батчем.
func (s *Storage) CreateAssignments(ctx context.Context, assignments []domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range assignments {
		query, args, err := s.sb.
			Insert(assignmentsTable).
			Columns(assignmentColumns...).
			Values(a.ID, a.RoomID, a.ParticipantName, a.DrawnName, a.ParticipantToken, nonNil(a.Wishes), a.HasViewed).
			ToSql()
		if err != nil {
			slog.ErrorContext(ctx, "failed to build insert assignment query", "error", err)
			return fmt.Errorf("%w: %v", ErrBuildQuery, err)
		}
		batch.Queue(query, args...)
	}
	if err := s.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		slog.ErrorContext(ctx, "failed to insert assignments", "error", err, "count", len(assignments))
		return fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return nil
}

// ListAssignmentsByRoom возвращает назначения в порядке списка участников комнаты.
func (s *Storage) ListAssignmentsByRoom(ctx context.Context, roomID string) ([]domain.Assignment, error) {
	query, args, err := s.sb.
		Select(prefixColumns("a", assignmentColumns)...).
		From(assignmentsTable + " a").
		Join(roomsTable + " r ON r.id = a.room_id").
		Where(squirrel.Eq{"a.room_id": roomID}).
		OrderBy("array_position(r.participant_names, a.participant_name)").
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build list assignments query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query assignments", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	assignments := []domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			slog.ErrorContext(ctx, "failed to scan assignment", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return assignments, nil
}

// GetAssignmentByToken возвращает назначение по токену участника.
func (s *Storage) GetAssignmentByToken(ctx context.Context, token string) (domain.Assignment, error) {
	query, args, err := s.sb.
		Select(assignmentColumns...).
		From(assignmentsTable).
		Where(squirrel.Eq{"participant_token": token}).
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select assignment query", "error", err)
		return domain.Assignment{}, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	a, err := scanAssignment(s.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, domain.ErrAssignmentNotFound
		}
		slog.ErrorContext(ctx, "failed to select assignment", "error", err)
		return domain.Assignment{}, fmt.Errorf("%w: %v", ErrScanResult, err)
	}
	return a, nil
}

// GetWishes возвращает желания участника комнаты. Неизвестный участник даёт пустой список.
func (s *Storage) GetWishes(ctx context.Context, roomID, participantName string) ([]string, error) {
	query, args, err := s.sb.
		Select("wishes").
		From(assignmentsTable).
		Where(squirrel.Eq{"room_id": roomID, "participant_name": participantName}).
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select wishes query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	var wishes []string
	if err := s.conn(ctx).QueryRow(ctx, query, args...).Scan(&wishes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []string{}, nil
		}
		slog.ErrorContext(ctx, "failed to select wishes", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
	}
	return nonNil(wishes), nil
}

// UpdateDrawnNames переписывает получателей назначений и сбрасывает has_viewed.
// Токены и желания не трогаются.
func (s *Storage) UpdateDrawnNames(ctx context.Context, assignments []domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range assignments {
		query, args, err := s.sb.
			Update(assignmentsTable).
			Set("drawn_name", a.DrawnName).
			Set("has_viewed", false).
			Where(squirrel.Eq{"id": a.ID}).
			ToSql()
		if err != nil {
			slog.ErrorContext(ctx, "failed to build update drawn name query", "error", err)
			return fmt.Errorf("%w: %v", ErrBuildQuery, err)
		}
		batch.Queue(query, args...)
	}
	if err := s.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		slog.ErrorContext(ctx, "failed to update drawn names", "error", err, "count", len(assignments))
		return fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return nil
}

// MarkViewed выставляет has_viewed и возвращает назначение.
func (s *Storage) MarkViewed(ctx context.Context, token string) (domain.Assignment, error) {
	return s.updateAssignment(ctx, s.sb.Update(assignmentsTable).Set("has_viewed", true), token)
}

// UpdateWishes заменяет список желаний участника.
func (s *Storage) UpdateWishes(ctx context.Context, token string, wishes []string) (domain.Assignment, error) {
	return s.updateAssignment(ctx, s.sb.Update(assignmentsTable).Set("wishes", nonNil(wishes)), token)
}

func (s *Storage) updateAssignment(ctx context.Context, builder squirrel.UpdateBuilder, token string) (domain.Assignment, error) {
	query, args, err := builder.
		Where(squirrel.Eq{"participant_token": token}).
		Suffix("RETURNING " + joinColumns(assignmentColumns)).
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build update assignment query", "error", err)
		return domain.Assignment{}, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	a, err := scanAssignment(s.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, domain.ErrAssignmentNotFound
		}
		slog.ErrorContext(ctx, "failed to update assignment", "error", err)
		return domain.Assignment{}, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(row scanner) (domain.Room, error) {
	var (
		room     domain.Room
		currency string
		language string
	)
	err := row.Scan(
		&room.ID, &room.Name, &room.ParticipantNames, &room.PriceLimit, &currency,
		&language, &room.IsDrawn, &room.AdminToken, &room.OwnerID, &room.CreatedAt,
	)
	if err != nil {
		return domain.Room{}, err
	}
	room.Currency = domain.Currency(currency)
	room.Language = domain.Language(language)
	room.ParticipantNames = nonNil(room.ParticipantNames)
	return room, nil
}

func scanAssignment(row scanner) (domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.RoomID, &a.ParticipantName, &a.DrawnName, &a.ParticipantToken, &a.Wishes, &a.HasViewed)
	if err != nil {
		return domain.Assignment{}, err
	}
	a.Wishes = nonNil(a.Wishes)
	return a, nil
}
