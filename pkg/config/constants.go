package config

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "MINIMALL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MINIMALL_DB_DSN"
	EnvDBHost = "MINIMALL_DB_HOST"
	EnvDBUser = "MINIMALL_DB_USER"
	EnvDBName = "MINIMALL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
