package config

// EnvPrefix is passed to envconfig when processing the configuration struct.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "LUMIERE_DB_DSN"
	EnvDBHost = "LUMIERE_DB_HOST"
	EnvDBUser = "LUMIERE_DB_USER"
	EnvDBName = "LUMIERE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
