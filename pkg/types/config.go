package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseSchema  string `envconfig:"DATABASE_SCHEMA" default:"giventake"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Postgres pool
	DatabaseMaxConns           int32 `envconfig:"DB_MAX_CONNS" default:"10"`
	DatabaseMinConns           int32 `envconfig:"DB_MIN_CONNS" default:"0"`
	DatabaseStatementTimeoutMS uint  `envconfig:"DB_STATEMENT_TIMEOUT_MS" default:"15000"`
	SlowQueryMS                uint  `envconfig:"SLOW_QUERY_MS" default:"500"`

	// App session tokens
	JWTSecret   string `envconfig:"JWT_SECRET"`
	TokenTTLMin uint   `envconfig:"TOKEN_TTL_MIN" default:"60"`
	AdminSecret string `envconfig:"ADMIN_SECRET"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Object storage, "s3" or "supabase"
	StorageBackend     string `envconfig:"STORAGE_BACKEND" default:"s3"`
	S3BucketName       string `envconfig:"S3_BUCKET_NAME" default:"giventake-uploads"`
	S3PublicBaseURL    string `envconfig:"S3_PUBLIC_BASE_URL"`
	SupabaseProjectID  string `envconfig:"SUPABASE_PROJECT_ID"`
	SupabaseAPIKey     string `envconfig:"SUPABASE_API_KEY"`
	SupabaseBucketName string `envconfig:"SUPABASE_BUCKET_NAME" default:"donation-images"`
	MaxUploadBytes     int64  `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Google Places proxy
	GoogleMapsAPIKey string `envconfig:"GOOGLE_MAPS_API_KEY"`
	PlacesBaseURL    string `envconfig:"PLACES_BASE_URL" default:"https://maps.googleapis.com/maps/api"`
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
