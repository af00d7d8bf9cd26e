package config

const (
	EnvPrefix = "aurelia"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AURELIA_DB_DSN"
	EnvDBHost = "AURELIA_DB_HOST"
	EnvDBUser = "AURELIA_DB_USER"
	EnvDBName = "AURELIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
