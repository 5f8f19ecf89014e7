package service

import (
	"context"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/repository"
)

// Setting serves one settings section: a singleton read with a partial
// update, both behind the simulated network.
type Setting[T any, P repository.SectionPtr[T]] struct {
	section string
	store   *repository.Singleton[T, P]
	net     *Network
	locks   *keyedLocks
	obs     CallObserver
	now     func() time.Time
}

func newSetting[T any, P repository.SectionPtr[T]](d *deps, section string, def func() T) *Setting[T, P] {
	return &Setting[T, P]{
		section: section,
		store:   repository.NewSingleton[T, P](domain.KindSettings, section, d.uow, def),
		net:     d.net,
		locks:   d.locks,
		obs:     d.obs,
		now:     d.now,
	}
}

// Section names the settings section, e.g. "company".
func (s *Setting[T, P]) Section() string { return s.section }

func (s *Setting[T, P]) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return observe(ctx, s.obs, s.net, s.now, CallEvent{Op: op, Kind: string(domain.KindSettings), ID: s.section}, fn)
}

// Get returns the section's current values.
func (s *Setting[T, P]) Get(ctx context.Context) (T, error) {
	var out T
	err := s.call(ctx, "get", func(ctx context.Context) error {
		v, err := s.store.Get(ctx)
		out = v
		return err
	})
	return out, err
}

// Update merges patch into the section. Fields the patch leaves out keep
// their values.
func (s *Setting[T, P]) Update(ctx context.Context, patch domain.Patch[T]) (T, error) {
	defer s.locks.Lock(string(domain.KindSettings) + "/" + s.section)()

	var out T
	err := s.call(ctx, "update", func(ctx context.Context) error {
		v, err := s.store.Update(ctx, func(p P) error {
			patch.Apply((*T)(p))
			return nil
		})
		out = v
		return err
	})
	return out, err
}

// SettingsAccessor groups the company, preference and system sections.
type SettingsAccessor struct {
	Company     *Setting[domain.CompanySettings, *domain.CompanySettings]
	Preferences *Setting[domain.UserPreferences, *domain.UserPreferences]
	System      *Setting[domain.SystemSettings, *domain.SystemSettings]
}

func newSettingsAccessor(d *deps) *SettingsAccessor {
	return &SettingsAccessor{
		Company:     newSetting[domain.CompanySettings](d, domain.SectionCompany, domain.DefaultCompanySettings),
		Preferences: newSetting[domain.UserPreferences](d, domain.SectionPreferences, domain.DefaultUserPreferences),
		System:      newSetting[domain.SystemSettings](d, domain.SectionSystem, domain.DefaultSystemSettings),
	}
}
