package models

// AppView is one of the named screens the front end can show.
type AppView string

const (
	ViewDashboard AppView = "DASHBOARD"
	ViewChat      AppView = "CHAT"
	ViewCreative  AppView = "CREATIVE"
	ViewVoice     AppView = "VOICE"
	ViewNotes     AppView = "NOTES"
	ViewAbout     AppView = "ABOUT"
	ViewAdmin     AppView = "ADMIN"
)

func (v AppView) Valid() bool {
	switch v {
	case ViewDashboard, ViewChat, ViewCreative, ViewVoice, ViewNotes, ViewAbout, ViewAdmin:
		return true
	}
	return false
}
