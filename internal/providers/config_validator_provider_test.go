package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lipid/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{Host: "127.0.0.1", Port: 8337},
		Persistence: structures.Persistence{
			FilePath:     "/var/lib/lipid/store.dat",
			SaveInterval: 30,
		},
		Logger: structures.LoggerConfig{Level: "info", Mode: 420, Dir: "/var/log/lipid"},
		Admin:  structures.AdminConfig{Username: "piyush_admin", Password: "donbosco2024"},
		Mentor: structures.MentorConfig{
			ChatModel:    "gemini-1.5-flash-latest",
			ImageModel:   "gemini-2.5-flash-image",
			HistoryTurns: 8,
		},
	}
}

func TestCnfValidator_ValidConfig(t *testing.T) {
	assert.NoError(t, NewCnfValidator(validConfig()).Validate())
}

func TestCnfValidator_MissingAdminPassword(t *testing.T) {
	conf := validConfig()
	conf.Admin.Password = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadLogLevel(t *testing.T) {
	conf := validConfig()
	conf.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_MissingHost(t *testing.T) {
	conf := validConfig()
	conf.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_MissingMentorModel(t *testing.T) {
	conf := validConfig()
	conf.Mentor.ChatModel = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}
