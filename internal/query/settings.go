package query

import (
	"context"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/repository"
	"github.com/alexanderramin/buildops/internal/service"
)

// SettingResource caches one settings section.
type SettingResource[T any, P repository.SectionPtr[T]] struct {
	c *Client
	a *service.Setting[T, P]
}

// SettingKey keys one settings section.
func SettingKey(section string) Key {
	return Key{Kind: domain.KindSettings, Scope: "section", Params: section}
}

func (r *SettingResource[T, P]) Key() Key { return SettingKey(r.a.Section()) }

func (r *SettingResource[T, P]) Get(ctx context.Context) (T, error) {
	return Fetch(ctx, r.c, r.Key(), r.a.Get)
}

func (r *SettingResource[T, P]) Read() (T, Snapshot) {
	return Read(r.c, r.Key(), r.a.Get)
}

// Update patches the section and invalidates every settings key.
func (r *SettingResource[T, P]) Update(ctx context.Context, patch domain.Patch[T], cb Callbacks[T]) (T, error) {
	return Mutate(ctx, r.c, func(ctx context.Context) (T, error) {
		return r.a.Update(ctx, patch)
	}, cb, domain.KindSettings)
}

// Settings groups the cached settings sections.
type Settings struct {
	Company     *SettingResource[domain.CompanySettings, *domain.CompanySettings]
	Preferences *SettingResource[domain.UserPreferences, *domain.UserPreferences]
	System      *SettingResource[domain.SystemSettings, *domain.SystemSettings]
}

func newSettings(c *Client, a *service.SettingsAccessor) *Settings {
	return &Settings{
		Company:     &SettingResource[domain.CompanySettings, *domain.CompanySettings]{c: c, a: a.Company},
		Preferences: &SettingResource[domain.UserPreferences, *domain.UserPreferences]{c: c, a: a.Preferences},
		System:      &SettingResource[domain.SystemSettings, *domain.SystemSettings]{c: c, a: a.System},
	}
}
