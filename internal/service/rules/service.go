package rules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/rule"
)

type snapshot struct {
	rule     domain.BookingRule
	loadedAt time.Time
}

// Service хранит снимок правил бронирования.
// Каждое решение о бронировании читает правила целиком из одного снимка,
// поэтому обновление правил посреди запроса не даёт частично новых значений.
type Service struct {
	ruleRepo     RuleRepository
	logger       Logger
	refreshEvery time.Duration
	now          func() time.Time

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex
}

// NewService создает сервис правил.
// refreshEvery <= 0 выключает периодическое перечитывание.
func NewService(ruleRepo RuleRepository, refreshEvery time.Duration, logger Logger) *Service {
	return &Service{
		ruleRepo:     ruleRepo,
		logger:       logger,
		refreshEvery: refreshEvery,
		now:          time.Now,
	}
}

// Init создаёт строку правил со значениями по умолчанию, если её нет, и загружает снимок
func (s *Service) Init(ctx context.Context) error {
	if err := s.ruleRepo.EnsureDefault(ctx, domain.DefaultBookingRule()); err != nil {
		s.logger.Error("Init: failed to ensure default rule: %v", err)
		return fmt.Errorf("%w: Init - ensure default: %v", ErrInternal, err)
	}

	rule, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("Init: rules loaded: work %s-%s, max %d min, slot %d min",
		domain.FormatMinuteOfDay(rule.WorkStartMinute), domain.FormatMinuteOfDay(rule.WorkEndMinute),
		rule.MaxBookingMinutes, rule.SlotMinutes)
	return nil
}

// Snapshot возвращает копию текущих правил.
// Если снимок устарел, правила перечитываются; при ошибке чтения
// используется предыдущий снимок.
func (s *Service) Snapshot(ctx context.Context) (domain.BookingRule, error) {
	cur := s.current.Load()
	if cur != nil && !s.stale(cur) {
		return cur.rule, nil
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	// Пока ждали мьютекс, снимок мог обновить другой запрос
	cur = s.current.Load()
	if cur != nil && !s.stale(cur) {
		return cur.rule, nil
	}

	rule, err := s.load(ctx)
	if err != nil {
		if cur != nil {
			s.logger.Warn("Snapshot: refresh failed, using rules loaded at %s: %v", cur.loadedAt.Format(time.RFC3339), err)
			return cur.rule, nil
		}
		return domain.BookingRule{}, err
	}

	return rule, nil
}

// Update валидирует и сохраняет новые правила, затем сразу заменяет снимок
func (s *Service) Update(ctx context.Context, rule domain.BookingRule) (*domain.BookingRule, error) {
	s.logger.Info("Update: work %d-%d, max %d, slot %d",
		rule.WorkStartMinute, rule.WorkEndMinute, rule.MaxBookingMinutes, rule.SlotMinutes)

	if err := rule.Validate(); err != nil {
		s.logger.Warn("Update: invalid rules: %v", err)
		return nil, err
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	updated, err := s.ruleRepo.Update(ctx, rule)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Error("Update: rule row is missing")
		} else {
			s.logger.Error("Update: failed to update rules: %v", err)
		}
		return nil, fmt.Errorf("%w: Update - repository: %v", ErrInternal, err)
	}

	s.current.Store(&snapshot{rule: *updated, loadedAt: s.now()})
	return updated, nil
}

func (s *Service) load(ctx context.Context) (domain.BookingRule, error) {
	rule, err := s.ruleRepo.Get(ctx)
	if err != nil {
		s.logger.Error("load: failed to read rules: %v", err)
		return domain.BookingRule{}, fmt.Errorf("%w: load - repository: %v", ErrInternal, err)
	}

	s.current.Store(&snapshot{rule: *rule, loadedAt: s.now()})
	return *rule, nil
}

func (s *Service) stale(snap *snapshot) bool {
	return s.refreshEvery > 0 && s.now().Sub(snap.loadedAt) >= s.refreshEvery
}
