package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_DefaultsUntilFirstUpdate(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	c, err := api.Settings.Company.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCompanySettings(), c)

	s, err := api.Settings.System.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", s.Timezone)
}

func TestSettings_PartialUpdateKeepsOtherFields(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	updated, err := api.Settings.Preferences.Update(ctx, domain.PatchFunc[domain.UserPreferences](func(p *domain.UserPreferences) {
		p.Theme = domain.ThemeDark
		p.Notifications.SMS = true
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, updated.Theme)
	assert.Equal(t, domain.ViewList, updated.DefaultView)
	assert.Equal(t, domain.Notifications{Email: true, Push: true, SMS: true}, updated.Notifications)

	got, err := api.Settings.Preferences.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	// A second update replaces the stored record rather than the defaults.
	_, err = api.Settings.Preferences.Update(ctx, domain.PatchFunc[domain.UserPreferences](func(p *domain.UserPreferences) {
		p.DefaultView = domain.ViewCalendar
	}))
	require.NoError(t, err)
	got, err = api.Settings.Preferences.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, got.Theme)
	assert.Equal(t, domain.ViewCalendar, got.DefaultView)
}

func TestSettings_InvalidUpdateWritesNothing(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	_, err := api.Settings.System.Update(ctx, domain.PatchFunc[domain.SystemSettings](func(s *domain.SystemSettings) {
		s.Currency = "EUR"
		s.TimeFormat = "36h"
	}))
	require.True(t, domain.IsValidation(err))

	s, err := api.Settings.System.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSystemSettings(), s)
}

func TestSettings_SectionsAreIndependent(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	_, err := api.Settings.Company.Update(ctx, domain.PatchFunc[domain.CompanySettings](func(c *domain.CompanySettings) {
		c.Phone = "(555) 000-0000"
	}))
	require.NoError(t, err)

	s, err := api.Settings.System.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSystemSettings(), s)
}
