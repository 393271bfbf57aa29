package config

import (
	"os"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store drivers selectable through STORE_DRIVER.
const (
	DriverMongo       = "mongo"
	DriverPostgres    = "postgres"
	DriverFirestore   = "firestore"
	DriverObjectStore = "objectstore"
	DriverMemory      = "memory"
)

var portRe = regexp.MustCompile(`^[0-9]{1,5}$`)

// MongoConfig holds the document database settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DatabaseConfig holds PostgreSQL database connection settings.
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
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FirestoreConfig holds Firestore settings.
type FirestoreConfig struct {
	ProjectID  string
	DatabaseID string
	Collection string
}

// LLMConfig configures the text-generation provider used to answer questions.
type LLMConfig struct {
	APIKey string
	Model  string
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port         string
	StoreDriver  string
	UploadTmpDir string
	BodyLimitMB  int
	Mongo        MongoConfig
	Database     DatabaseConfig
	MinIO        MinIOConfig
	Firestore    FirestoreConfig
	LLM          LLMConfig
	Log          LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	dbName := getEnv("DB_NAME", "csv_database")
	collection := getEnv("COLLECTION_NAME", "csv_files")

	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		StoreDriver:  getEnv("STORE_DRIVER", DriverMongo),
		UploadTmpDir: getEnv("UPLOAD_TMP_DIR", os.TempDir()),
		BodyLimitMB:  getEnvInt("BODY_LIMIT_MB", 16),
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   dbName,
			Collection: collection,
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               dbName,
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Firestore: FirestoreConfig{
			ProjectID:  getEnv("FIRESTORE_PROJECT_ID", ""),
			DatabaseID: getEnv("FIRESTORE_DATABASE_ID", "(default)"),
			Collection: collection,
		},
		LLM: LLMConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate checks the settings required by the selected store driver.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Match(portRe)),
		validation.Field(&c.StoreDriver, validation.Required,
			validation.In(DriverMongo, DriverPostgres, DriverFirestore, DriverObjectStore, DriverMemory)),
		validation.Field(&c.BodyLimitMB, validation.Min(1)),
	); err != nil {
		return err
	}

	switch c.StoreDriver {
	case DriverMongo:
		return c.Mongo.Validate()
	case DriverPostgres:
		return c.Database.Validate()
	case DriverFirestore:
		return c.Firestore.Validate()
	case DriverObjectStore:
		return c.MinIO.Validate()
	}
	return nil
}

// Validate validates the MongoDB configuration.
func (c MongoConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URI, validation.Required),
		validation.Field(&c.Database, validation.Required),
		validation.Field(&c.Collection, validation.Required),
	)
}

// Validate validates the PostgreSQL configuration.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Match(portRe)),
		validation.Field(&c.User, validation.Required),
		validation.Field(&c.Name, validation.Required),
	)
}

// Validate validates the Firestore configuration.
func (c FirestoreConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ProjectID, validation.Required),
		validation.Field(&c.DatabaseID, validation.Required),
		validation.Field(&c.Collection, validation.Required),
	)
}

// Validate validates the MinIO configuration.
func (c MinIOConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.Bucket, validation.Required),
	)
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
