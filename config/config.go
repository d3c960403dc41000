package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Mail       MailConfig
	Predictor  PredictorConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type PredictorConfig struct {
	URL     string
	Timeout time.Duration
}

type SchedulingConfig struct {
	// ReferenceCity is the city counted as "near" for the distance feature.
	ReferenceCity string
	// SweepHour is the hour of day (0-23) at which the daily no-show sweep fires.
	SweepHour int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	predictorTimeout, err := time.ParseDuration(viper.GetString("PREDICTOR_TIMEOUT"))
	if err != nil {
		predictorTimeout = 10 * time.Second
	}

	referenceCity := viper.GetString("REFERENCE_CITY")
	if referenceCity == "" {
		referenceCity = "Lagos"
	}

	sweepHour := 8
	if viper.IsSet("SWEEP_HOUR") {
		sweepHour = viper.GetInt("SWEEP_HOUR")
	}

	mailPort := viper.GetInt("MAIL_PORT")
	if mailPort == 0 {
		mailPort = 587
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Mail: MailConfig{
			Host:     viper.GetString("MAIL_HOST"),
			Port:     mailPort,
			Username: viper.GetString("MAIL_USERNAME"),
			Password: viper.GetString("MAIL_PASSWORD"),
			From:     viper.GetString("MAIL_FROM"),
		},
		Predictor: PredictorConfig{
			URL:     viper.GetString("PREDICTOR_URL"),
			Timeout: predictorTimeout,
		},
		Scheduling: SchedulingConfig{
			ReferenceCity: referenceCity,
			SweepHour:     sweepHour,
		},
	}

	return config, nil
}
