package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	trm "github.com/avito-tech/go-transaction-manager/trm/v2"

	"github.com/Blaxzter/secret-santa/internal/config"
	"github.com/Blaxzter/secret-santa/internal/derangement"
	"github.com/Blaxzter/secret-santa/internal/domain"
	"github.com/Blaxzter/secret-santa/internal/infrastructure/randomizer"
	"github.com/Blaxzter/secret-santa/internal/infrastructure/tokener"
	"github.com/Blaxzter/secret-santa/internal/logging"
	"github.com/Blaxzter/secret-santa/internal/metrics"
	"github.com/Blaxzter/secret-santa/internal/repository"
)

const (
	// DefaultOperationTimeout таймаут по умолчанию для обычных операций
	DefaultOperationTimeout = 30 * time.Second
	// DefaultMinParticipants минимальный размер комнаты, если в конфиге не задан
	DefaultMinParticipants = 3
)

// Repository описывает операции, которые требуются сервису.
type Repository interface {
	repository.Repository
}

// Service агрегирует бизнес-логику приложения.
type Service struct {
	repo      Repository
	health    repository.HealthChecker
	cfg       config.Config
	trMgr     trm.Manager
	generator *derangement.Generator
	tokener   tokener.Tokener
}

func New(repo Repository, cfg config.Config, trMgr trm.Manager, rnd randomizer.Randomizer, tokener tokener.Tokener) *Service {
	svc := &Service{
		repo:      repo,
		cfg:       cfg,
		trMgr:     trMgr,
		generator: derangement.New(rnd, cfg.Draw.MaxAttempts),
		tokener:   tokener,
	}
	if svc.cfg.Timeouts.Operation <= 0 {
		svc.cfg.Timeouts.Operation = DefaultOperationTimeout
	}
	if svc.cfg.Draw.MinParticipants < derangement.MinParticipants {
		svc.cfg.Draw.MinParticipants = DefaultMinParticipants
	}
	if checker, ok := repo.(repository.HealthChecker); ok {
		svc.health = checker
	}
	return svc
}

// CreateRoom проверяет параметры, проводит жеребьёвку и сохраняет комнату
// вместе с назначениями в одной транзакции.
func (s *Service) CreateRoom(ctx context.Context, in domain.NewRoom) (domain.RoomWithAssignments, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	room, err := s.prepareRoom(in)
	if err != nil {
		return domain.RoomWithAssignments{}, err
	}
	ctx = logging.WithLogRoomID(ctx, room.ID)
	ctx = logging.WithLogParticipantsCount(ctx, len(room.ParticipantNames))

	receivers, err := s.draw(ctx, room.ParticipantNames)
	if err != nil {
		return domain.RoomWithAssignments{}, logging.WrapError(ctx, err)
	}

	assignments := make([]domain.Assignment, len(room.ParticipantNames))
	for i, name := range room.ParticipantNames {
		assignments[i] = s.newAssignment(room.ID, name, receivers[i])
	}

	err = s.trMgr.Do(ctx, func(ctx context.Context) error {
		created, err := s.repo.CreateRoom(ctx, room)
		if err != nil {
			return err
		}
		room = created
		return s.repo.CreateAssignments(ctx, assignments)
	})
	if err != nil {
		return domain.RoomWithAssignments{}, logging.WrapError(ctx, err)
	}

	metrics.IncRoomsCreated()
	metrics.AddParticipantsRegistered(len(assignments))
	slog.InfoContext(ctx, "room created")
	return domain.RoomWithAssignments{Room: room, Assignments: assignments}, nil
}

func (s *Service) prepareRoom(in domain.NewRoom) (domain.Room, error) {
	name, err := ValidateRoomName(in.Name)
	if err != nil {
		return domain.Room{}, err
	}
	participants, err := ValidateParticipants(in.ParticipantNames, s.cfg.Draw.MinParticipants)
	if err != nil {
		return domain.Room{}, err
	}
	if err := ValidatePriceLimit(in.PriceLimit); err != nil {
		return domain.Room{}, err
	}
	currency, err := ValidateCurrency(in.Currency)
	if err != nil {
		return domain.Room{}, err
	}
	language, err := ValidateLanguage(in.Language)
	if err != nil {
		return domain.Room{}, err
	}
	ownerID, err := ValidateOwnerID(in.OwnerID, false)
	if err != nil {
		return domain.Room{}, err
	}
	return domain.Room{
		ID:               s.tokener.NewID(),
		Name:             name,
		ParticipantNames: participants,
		PriceLimit:       in.PriceLimit,
		Currency:         currency,
		Language:         language,
		IsDrawn:          true,
		AdminToken:       s.tokener.NewToken(),
		OwnerID:          ownerID,
	}, nil
}

func (s *Service) newAssignment(roomID, participant, drawn string) domain.Assignment {
	return domain.Assignment{
		ID:               s.tokener.NewID(),
		RoomID:           roomID,
		ParticipantName:  participant,
		DrawnName:        drawn,
		ParticipantToken: s.tokener.NewToken(),
		Wishes:           []string{},
	}
}

// draw проводит жеребьёвку и фиксирует её статистику в метриках и логах.
func (s *Service) draw(ctx context.Context, participants []string) ([]string, error) {
	res, err := s.generator.GenerateWithStats(participants)
	if err != nil {
		slog.ErrorContext(ctx, "draw failed", "error", err)
		return nil, err
	}
	metrics.ObserveDraw(res.Attempts, res.Fallback)
	if res.Fallback {
		slog.WarnContext(logging.WithLogDraw(ctx, res.Attempts, true), "draw resolved by rotation")
	}
	return res.Receivers, nil
}

// ListRooms возвращает комнаты организатора, новые первыми.
func (s *Service) ListRooms(ctx context.Context, ownerID string) ([]domain.Room, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	ownerID, err := ValidateOwnerID(ownerID, true)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.ListRoomsByOwner(ctx, ownerID)
	if err != nil {
		return nil, logging.WrapError(ctx, err)
	}
	return rooms, nil
}

// GetRoomAdmin возвращает комнату и все назначения по токену администратора.
func (s *Service) GetRoomAdmin(ctx context.Context, adminToken string) (domain.RoomWithAssignments, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	adminToken, err := ValidateToken(adminToken)
	if err != nil {
		return domain.RoomWithAssignments{}, err
	}
	room, err := s.repo.GetRoomByAdminToken(ctx, adminToken)
	if err != nil {
		return domain.RoomWithAssignments{}, logging.WrapError(ctx, err)
	}
	ctx = logging.WithLogRoomID(ctx, room.ID)
	assignments, err := s.repo.ListAssignmentsByRoom(ctx, room.ID)
	if err != nil {
		return domain.RoomWithAssignments{}, logging.WrapError(ctx, err)
	}
	return domain.RoomWithAssignments{Room: room, Assignments: assignments}, nil
}

// UpdateRoom меняет название и/или лимит цены комнаты.
func (s *Service) UpdateRoom(ctx context.Context, roomID, adminToken string, patch domain.RoomPatch) (domain.Room, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogRoomID(ctx, roomID)

	if patch.Empty() {
		return domain.Room{}, validationError("no fields to update")
	}
	if patch.Name != nil {
		name, err := ValidateRoomName(*patch.Name)
		if err != nil {
			return domain.Room{}, err
		}
		patch.Name = &name
	}
	if patch.PriceLimit != nil {
		if err := ValidatePriceLimit(*patch.PriceLimit); err != nil {
			return domain.Room{}, err
		}
	}

	var updated domain.Room
	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorize(ctx, roomID, adminToken, false); err != nil {
			return err
		}
		room, err := s.repo.UpdateRoom(ctx, roomID, patch)
		if err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return domain.Room{}, logging.WrapError(ctx, err)
	}
	return updated, nil
}

// DeleteRoom удаляет комнату вместе с назначениями.
func (s *Service) DeleteRoom(ctx context.Context, roomID, adminToken string) error {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogRoomID(ctx, roomID)

	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		if _, err := s.authorize(ctx, roomID, adminToken, true); err != nil {
			return err
		}
		return s.repo.DeleteRoom(ctx, roomID)
	})
	if err != nil {
		return logging.WrapError(ctx, err)
	}
	metrics.IncRoomsDeleted()
	slog.InfoContext(ctx, "room deleted")
	return nil
}

// Reshuffle проводит жеребьёвку заново. Строка комнаты блокируется до конца
// транзакции, поэтому параллельные перетасовки одной комнаты выполняются по очереди.
// Токены и желания участников сохраняются, has_viewed сбрасывается.
func (s *Service) Reshuffle(ctx context.Context, roomID, adminToken string) (domain.RoomWithAssignments, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogRoomID(ctx, roomID)

	var result domain.RoomWithAssignments
	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		room, err := s.authorize(ctx, roomID, adminToken, true)
		if err != nil {
			return err
		}
		ctx = logging.WithLogParticipantsCount(ctx, len(room.ParticipantNames))

		existing, err := s.repo.ListAssignmentsByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		receivers, err := s.draw(ctx, room.ParticipantNames)
		if err != nil {
			return err
		}

		byParticipant := make(map[string]domain.Assignment, len(existing))
		for _, a := range existing {
			byParticipant[a.ParticipantName] = a
		}
		updated := make([]domain.Assignment, 0, len(existing))
		missing := []domain.Assignment{}
		all := make([]domain.Assignment, len(room.ParticipantNames))
		for i, name := range room.ParticipantNames {
			a, ok := byParticipant[name]
			if !ok {
				a = s.newAssignment(roomID, name, receivers[i])
				missing = append(missing, a)
				all[i] = a
				continue
			}
			a.DrawnName = receivers[i]
			a.HasViewed = false
			updated = append(updated, a)
			all[i] = a
		}

		if err := s.repo.UpdateDrawnNames(ctx, updated); err != nil {
			return err
		}
		if err := s.repo.CreateAssignments(ctx, missing); err != nil {
			return err
		}
		if err := s.repo.MarkRoomDrawn(ctx, roomID); err != nil {
			return err
		}
		room.IsDrawn = true
		result = domain.RoomWithAssignments{Room: room, Assignments: all}
		return nil
	})
	if err != nil {
		return domain.RoomWithAssignments{}, logging.WrapError(ctx, err)
	}
	metrics.IncReshuffles()
	slog.InfoContext(ctx, "room reshuffled")
	return result, nil
}

// authorize загружает комнату и сверяет токен администратора за постоянное время.
func (s *Service) authorize(ctx context.Context, roomID, adminToken string, lock bool) (domain.Room, error) {
	var (
		room domain.Room
		err  error
	)
	if lock {
		room, err = s.repo.LockRoom(ctx, roomID)
	} else {
		room, err = s.repo.GetRoomByID(ctx, roomID)
	}
	if err != nil {
		return domain.Room{}, err
	}
	if subtle.ConstantTimeCompare([]byte(room.AdminToken), []byte(adminToken)) != 1 {
		return domain.Room{}, domain.ErrForbidden
	}
	return room, nil
}

// GetParticipantView возвращает назначение участника с желаниями получателя и данными комнаты.
func (s *Service) GetParticipantView(ctx context.Context, token string) (domain.ParticipantView, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	token, err := ValidateToken(token)
	if err != nil {
		return domain.ParticipantView{}, err
	}
	assignment, err := s.repo.GetAssignmentByToken(ctx, token)
	if err != nil {
		return domain.ParticipantView{}, logging.WrapError(ctx, err)
	}
	return s.participantView(ctx, assignment)
}

func (s *Service) participantView(ctx context.Context, assignment domain.Assignment) (domain.ParticipantView, error) {
	ctx = logging.WithLogAssignmentID(ctx, assignment.ID)
	ctx = logging.WithLogRoomID(ctx, assignment.RoomID)

	room, err := s.repo.GetRoomByID(ctx, assignment.RoomID)
	if err != nil {
		return domain.ParticipantView{}, logging.WrapError(ctx, err)
	}
	wishes, err := s.repo.GetWishes(ctx, assignment.RoomID, assignment.DrawnName)
	if err != nil {
		return domain.ParticipantView{}, logging.WrapError(ctx, err)
	}
	return domain.ParticipantView{
		Assignment:             assignment,
		DrawnParticipantWishes: wishes,
		RoomName:               room.Name,
		PriceLimit:             room.PriceLimit,
		Currency:               room.Currency,
		Language:               room.Language,
	}, nil
}

// MarkViewed отмечает, что участник открыл своё назначение. Повторный вызов ничего не меняет.
func (s *Service) MarkViewed(ctx context.Context, token string) (domain.Assignment, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	token, err := ValidateToken(token)
	if err != nil {
		return domain.Assignment{}, err
	}

	var (
		result    domain.Assignment
		firstView bool
	)
	err = s.trMgr.Do(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAssignmentByToken(ctx, token)
		if err != nil {
			return err
		}
		if a.HasViewed {
			result = a
			return nil
		}
		result, err = s.repo.MarkViewed(ctx, token)
		firstView = err == nil
		return err
	})
	if err != nil {
		return domain.Assignment{}, logging.WrapError(ctx, err)
	}
	if firstView {
		metrics.IncReveals()
		slog.InfoContext(logging.WithLogAssignmentID(ctx, result.ID), "assignment revealed")
	}
	return result, nil
}

// UpdateWishes заменяет список желаний участника.
func (s *Service) UpdateWishes(ctx context.Context, token string, wishes []string) (domain.Assignment, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	token, err := ValidateToken(token)
	if err != nil {
		return domain.Assignment{}, err
	}
	normalized, err := NormalizeWishes(wishes)
	if err != nil {
		return domain.Assignment{}, err
	}
	a, err := s.repo.UpdateWishes(ctx, token, normalized)
	if err != nil {
		return domain.Assignment{}, logging.WrapError(ctx, err)
	}
	metrics.IncWishesUpdates()
	return a, nil
}

// HealthCheck возвращает состояние зависимостей сервиса.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	if err := s.health.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// shortOperationContext создаёт контекст с таймаутом для обычных операций.
func (s *Service) shortOperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Timeouts.Operation)
}
