package config

type Config interface {
	EnvConfig
	TwitchConfig
	RedisConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Twitch
	Redis
}

func New() Config {
	return mainConfig{}
}
