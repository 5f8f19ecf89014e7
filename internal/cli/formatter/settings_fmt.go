package formatter

import "github.com/alexanderramin/buildops/internal/domain"

func onOff(b bool) string {
	if b {
		return StyleGreen.Render("on")
	}
	return Dim("off")
}

func FormatCompanySettings(s domain.CompanySettings) string {
	return Header("Company") + "\n" + KeyValues(
		[2]string{"Name", s.Name},
		[2]string{"Address", s.Address},
		[2]string{"Phone", s.Phone},
		[2]string{"Email", s.Email},
		[2]string{"Website", s.Website},
		[2]string{"Tax ID", s.TaxID},
		[2]string{"Logo", s.Logo},
	)
}

func FormatUserPreferences(p domain.UserPreferences) string {
	return Header("Preferences") + "\n" + KeyValues(
		[2]string{"Theme", string(p.Theme)},
		[2]string{"Default view", string(p.DefaultView)},
		[2]string{"Email alerts", onOff(p.Notifications.Email)},
		[2]string{"Push alerts", onOff(p.Notifications.Push)},
		[2]string{"SMS alerts", onOff(p.Notifications.SMS)},
	)
}

func FormatSystemSettings(s domain.SystemSettings) string {
	return Header("System") + "\n" + KeyValues(
		[2]string{"Date format", s.DateFormat},
		[2]string{"Time format", s.TimeFormat},
		[2]string{"Currency", s.Currency},
		[2]string{"Language", s.Language},
		[2]string{"Timezone", s.Timezone},
	)
}
