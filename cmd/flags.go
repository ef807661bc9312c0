package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tuva-health/EMPI/pkg/storage"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "EMPI_SERVER_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/empi", "Base path to export the webserver on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "EMPI_SERVER_BASE_PATH")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 30*time.Second, "Graceful shutdown period")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "EMPI_SERVER_GRACEFUL_PERIOD")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}

func storageConfigFlag(v *viper.Viper) storage.Config {
	return storage.Config{
		Backend: v.GetString("storage.backend"),
		S3: storage.S3Settings{
			BucketName:      v.GetString("storage.s3.bucket_name"),
			Region:          v.GetString("storage.s3.region"),
			AccessKeyID:     v.GetString("storage.s3.access_key_id"),
			SecretAccessKey: v.GetString("storage.s3.secret_access_key"),
			EndpointURL:     v.GetString("storage.s3.endpoint_url"),
		},
		Azure: storage.AzureBlobSettings{
			AccountName:      v.GetString("storage.azure.account_name"),
			AccountKey:       v.GetString("storage.azure.account_key"),
			ConnectionString: v.GetString("storage.azure.connection_string"),
			EndpointURL:      v.GetString("storage.azure.endpoint_url"),
		},
		LocalDir: v.GetString("storage.local.dir"),
	}
}

func addStorageFlags(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-backend", "s3", "Active storage backend (s3, azure_blob, local)")
	_ = v.BindPFlag("storage.backend", flags.Lookup("storage-backend"))
	_ = v.BindEnv("storage.backend", "EMPI_STORAGE_BACKEND")

	flags.String("storage-s3-bucket-name", "", "Default S3 bucket name")
	_ = v.BindPFlag("storage.s3.bucket_name", flags.Lookup("storage-s3-bucket-name"))
	_ = v.BindEnv("storage.s3.bucket_name", "EMPI_STORAGE_S3_BUCKET_NAME")

	flags.String("storage-s3-region", "", "S3 region")
	_ = v.BindPFlag("storage.s3.region", flags.Lookup("storage-s3-region"))
	_ = v.BindEnv("storage.s3.region", "EMPI_STORAGE_S3_REGION")

	flags.String("storage-s3-access-key-id", "", "S3 access key id")
	_ = v.BindPFlag("storage.s3.access_key_id", flags.Lookup("storage-s3-access-key-id"))
	_ = v.BindEnv("storage.s3.access_key_id", "EMPI_STORAGE_S3_ACCESS_KEY_ID")

	flags.String("storage-s3-secret-access-key", "", "S3 secret access key")
	_ = v.BindPFlag("storage.s3.secret_access_key", flags.Lookup("storage-s3-secret-access-key"))
	_ = v.BindEnv("storage.s3.secret_access_key", "EMPI_STORAGE_S3_SECRET_ACCESS_KEY")

	flags.String("storage-s3-endpoint-url", "", "Custom S3 endpoint URL")
	_ = v.BindPFlag("storage.s3.endpoint_url", flags.Lookup("storage-s3-endpoint-url"))
	_ = v.BindEnv("storage.s3.endpoint_url", "EMPI_STORAGE_S3_ENDPOINT_URL")

	flags.String("storage-azure-account-name", "", "Azure storage account name")
	_ = v.BindPFlag("storage.azure.account_name", flags.Lookup("storage-azure-account-name"))
	_ = v.BindEnv("storage.azure.account_name", "EMPI_STORAGE_AZURE_ACCOUNT_NAME")

	flags.String("storage-azure-account-key", "", "Azure storage account key")
	_ = v.BindPFlag("storage.azure.account_key", flags.Lookup("storage-azure-account-key"))
	_ = v.BindEnv("storage.azure.account_key", "EMPI_STORAGE_AZURE_ACCOUNT_KEY")

	flags.String("storage-azure-connection-string", "", "Azure storage connection string")
	_ = v.BindPFlag("storage.azure.connection_string", flags.Lookup("storage-azure-connection-string"))
	_ = v.BindEnv("storage.azure.connection_string", "EMPI_STORAGE_AZURE_CONNECTION_STRING")

	flags.String("storage-azure-endpoint-url", "", "Custom Azure blob endpoint URL")
	_ = v.BindPFlag("storage.azure.endpoint_url", flags.Lookup("storage-azure-endpoint-url"))
	_ = v.BindEnv("storage.azure.endpoint_url", "EMPI_STORAGE_AZURE_ENDPOINT_URL")

	flags.String("storage-local-dir", "/var/lib/empi", "Base directory for the local backend")
	_ = v.BindPFlag("storage.local.dir", flags.Lookup("storage-local-dir"))
	_ = v.BindEnv("storage.local.dir", "EMPI_STORAGE_LOCAL_DIR")
}
