package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DatabaseConfig holds PostgreSQL settings for the optional conversion history.
// History is disabled when Host is empty.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	// ApplicationName tags history sessions in pg_stat_activity.
	ApplicationName string
	// StatementTimeoutMs caps each history query so a slow database cannot
	// hold a finished conversion open. Zero leaves the server default.
	StatementTimeoutMs int
}

// Enabled reports whether a database has been configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings used to mirror produced archives.
// Mirroring is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PresignExpirySec bounds archive download links.
	PresignExpirySec int
}

// Enabled reports whether an object store has been configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// PresignExpiry returns PresignExpirySec as a duration.
func (c MinIOConfig) PresignExpiry() time.Duration {
	return time.Duration(c.PresignExpirySec) * time.Second
}

// ConvertConfig holds settings for the conversion backends.
type ConvertConfig struct {
	// OutputDir is the base directory; each upload writes into OutputDir/<stem>.
	OutputDir string
	// PythonBin is the interpreter used for module invocations and library bridges.
	PythonBin string
	// AsposeLicensePath is passed to the Aspose SDK when set.
	AsposeLicensePath string
	// TimeoutSec bounds a single backend run. Zero means no limit.
	TimeoutSec int
	// MaxUploadMB caps the request body size.
	MaxUploadMB int
}

// Timeout returns TimeoutSec as a duration.
func (c ConvertConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string
	Timezone string
	Convert  ConvertConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Convert: ConvertConfig{
			OutputDir:         getEnv("OUTPUT_DIR", defaultOutputDir()),
			PythonBin:         getEnv("PYTHON_BIN", "python3"),
			AsposeLicensePath: getEnv("ASPOSE_LICENSE_PATH", ""),
			TimeoutSec:        getEnvInt("CONVERT_TIMEOUT_SEC", 0),
			MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 100),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "slidemd"),
			StatementTimeoutMs: getEnvInt("DB_STATEMENT_TIMEOUT_MS", 5000),
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", ""),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", ""),
			Region:           getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
			PresignExpirySec: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900),
		},
	}
}

// defaultOutputDir is the outputs directory next to the running binary, so the
// location does not depend on the working directory the service starts in.
func defaultOutputDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "outputs"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "outputs")
}

var portPattern = regexp.MustCompile(`^[0-9]{1,5}$`)

// Validate checks the loaded values. Database and MinIO blocks are only
// checked for completeness when they are enabled.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Match(portPattern)),
		validation.Field(&c.Timezone, validation.Required, validation.By(func(value any) error {
			if _, err := time.LoadLocation(value.(string)); err != nil {
				return validation.NewError("config.timezone_invalid", "unknown timezone")
			}
			return nil
		})),
	); err != nil {
		return err
	}

	cv := c.Convert
	if err := validation.ValidateStruct(&cv,
		validation.Field(&cv.OutputDir, validation.Required),
		validation.Field(&cv.PythonBin, validation.Required),
		validation.Field(&cv.TimeoutSec, validation.Min(0)),
		validation.Field(&cv.MaxUploadMB, validation.Min(1)),
	); err != nil {
		return err
	}

	db := c.Database
	if err := validation.ValidateStruct(&db,
		validation.Field(&db.User, validation.When(db.Enabled(), validation.Required)),
		validation.Field(&db.Name, validation.When(db.Enabled(), validation.Required)),
		validation.Field(&db.StatementTimeoutMs, validation.Min(0)),
	); err != nil {
		return err
	}

	mc := c.MinIO
	return validation.ValidateStruct(&mc,
		validation.Field(&mc.AccessKey, validation.When(mc.Enabled(), validation.Required)),
		validation.Field(&mc.SecretKey, validation.When(mc.Enabled(), validation.Required)),
		validation.Field(&mc.Bucket, validation.When(mc.Enabled(), validation.Required)),
		validation.Field(&mc.PresignExpirySec, validation.When(mc.Enabled(), validation.Min(1), validation.Max(604800))),
	)
}

// Location resolves Timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
