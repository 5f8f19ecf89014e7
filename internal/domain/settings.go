package domain

import "slices"

// KindSettings namespaces the singleton settings records. It is not an
// entity kind: its records are addressed by section name, not PREFIX-NUMBER.
const KindSettings Kind = "settings"

// Settings sections, used as record ids and cache-key params.
const (
	SectionCompany     = "company"
	SectionPreferences = "preferences"
	SectionSystem      = "system"
)

// Sections lists the settings sections in display order.
func Sections() []string {
	return []string{SectionCompany, SectionPreferences, SectionSystem}
}

type CompanySettings struct {
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	TaxID   string `json:"taxId"`
}

func (s *CompanySettings) Normalize() error {
	return required("name", s.Name)
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type DefaultView string

const (
	ViewList     DefaultView = "list"
	ViewGrid     DefaultView = "grid"
	ViewCalendar DefaultView = "calendar"
)

type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// UserPreferences merges partial updates field by field, including the
// nested notification switches.
type UserPreferences struct {
	Theme         Theme         `json:"theme"`
	Notifications Notifications `json:"notifications"`
	DefaultView   DefaultView   `json:"defaultView"`
}

func (p *UserPreferences) Normalize() error {
	return firstErr(
		oneOf("theme", &p.Theme, ThemeSystem, ThemeLight, ThemeDark, ThemeSystem),
		oneOf("defaultView", &p.DefaultView, ViewList, ViewList, ViewGrid, ViewCalendar),
	)
}

type SystemSettings struct {
	DateFormat string `json:"dateFormat"`
	TimeFormat string `json:"timeFormat"`
	Currency   string `json:"currency"`
	Language   string `json:"language"`
	Timezone   string `json:"timezone"`
}

func (s *SystemSettings) Normalize() error {
	return firstErr(
		oneOf("timeFormat", &s.TimeFormat, "12h", "12h", "24h"),
		required("currency", s.Currency),
		required("timezone", s.Timezone),
	)
}

// DefaultCompanySettings is served until the section is first updated.
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		Name:    "Construction Management Co.",
		Logo:    "/placeholder.svg?height=100&width=100",
		Address: "123 Builder St, Construction City, CC 12345",
		Phone:   "(555) 123-4567",
		Email:   "info@construction-management.com",
		Website: "www.construction-management.com",
		TaxID:   "12-3456789",
	}
}

func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Theme:         ThemeSystem,
		Notifications: Notifications{Email: true, Push: true},
		DefaultView:   ViewList,
	}
}

func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		DateFormat: "MM/DD/YYYY",
		TimeFormat: "12h",
		Currency:   "USD",
		Language:   "en-US",
		Timezone:   "America/New_York",
	}
}

// oneOf defaults an empty value to def and rejects anything not allowed.
func oneOf[S ~string](field string, s *S, def S, allowed ...S) error {
	if *s == "" {
		*s = def
		return nil
	}
	if slices.Contains(allowed, *s) {
		return nil
	}
	return Invalid(field, "%q is not one of %v", string(*s), allowed)
}
