package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"lipid/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "LIPID_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "LIPID_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "LIPID_CACHE_ENABLED")
	viper.BindEnv("cache.size", "LIPID_CACHE_SIZE")
	viper.BindEnv("admin.username", "LIPID_ADMIN_USERNAME")
	viper.BindEnv("admin.password", "LIPID_ADMIN_PASSWORD")
	viper.BindEnv("mentor.apiKey", "GEMINI_API_KEY")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "LipiWorkspaceDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
