package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "PARTNERCRM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PARTNERCRM_DB_DSN"
	EnvDBHost = "PARTNERCRM_DB_HOST"
	EnvDBUser = "PARTNERCRM_DB_USER"
	EnvDBName = "PARTNERCRM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
