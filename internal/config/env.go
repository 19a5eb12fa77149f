package config

// Database holds the default connection target. The CLI positional database
// name and the -a/-p options override Name, Host and Port per invocation.
type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string `mapstructure:"DATABASE_NAME" default:"projectx"`
	User     string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string `mapstructure:"DATABASE_PASSWORD"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"database-alchemy"`
	Service  string `mapstructure:"SERVICE" default:"labdb"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}
