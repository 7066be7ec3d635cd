package config

// EnvPrefix namespaces every environment variable this service reads.
const EnvPrefix = "CONDOFLOW"

const (
	AppEnvDev  = "dev"
	AppEnvTest = "test"
	AppEnvProd = "prod"
)

// Legacy database variables honored when DB_DSN is not set. These match
// the names the provisioning scripts export.
const (
	EnvDBDSN      = "CONDOFLOW_DB_DSN"
	EnvDBHost     = "CONDOFLOW_DB_HOST"
	EnvDBPort     = "CONDOFLOW_DB_PORT"
	EnvDBUser     = "CONDOFLOW_DB_USER"
	EnvDBPassword = "CONDOFLOW_DB_PASSWORD"
	EnvDBName     = "CONDOFLOW_DB_NAME"
	EnvDBSSLMode  = "CONDOFLOW_DB_SSLMODE"
)
