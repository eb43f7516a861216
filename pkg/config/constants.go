package config

const (
	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "pos"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "POS_DB_DSN"
	EnvDBHost = "POS_DB_HOST"
	EnvDBUser = "POS_DB_USER"
	EnvDBName = "POS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
