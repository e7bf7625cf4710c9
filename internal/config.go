package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
	NodeID    string `env:"NODE_ID"`
	Host      string `env:"HOST,default=0.0.0.0"`
	HTTPPort  int    `env:"HTTP_PORT,default=8080"`
	GRPCPort  int    `env:"GRPC_PORT,default=9090"`
	DebugPort int    `env:"DEBUG_PORT,default=8081"`

	SQLiteFilepath string `env:"SQLITE_FILEPATH,required=true"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	AvatarDir      string `env:"AVATAR_DIR,required=true"`
	AvatarBaseURL  string `env:"AVATAR_BASE_URL,default=/avatars"`
	AvatarMaxBytes int64  `env:"AVATAR_MAX_BYTES,default=2097152"`
	CensoredDir    string `env:"CENSORED_DIR"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	JWTIssuer         string        `env:"JWT_ISSUER,default=social-club"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	AdminEmails       string        `env:"ADMIN_EMAILS"`

	CharReplacement  string `env:"CHARACTER_REPLACEMENT,default=*"`
	MaxContentLength int    `env:"MAX_CONTENT_LENGTH,default=2000"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	MaxFrameBytes        int64         `env:"MAX_FRAME_BYTES,default=16384"`
	PongWait             time.Duration `env:"PONG_WAIT,default=60s"`
	WriteWait            time.Duration `env:"WRITE_WAIT,default=10s"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT,default=5s"`
	HandlerTimeout       time.Duration `env:"HANDLER_TIMEOUT,default=5s"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS"`

	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=2s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	ValkeyAddress string `env:"VALKEY_ADDR"`
	ValkeyChannel string `env:"VALKEY_CHANNEL,default=social:frames"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitList turns a comma separated variable into trimmed, lowercased, non empty entries.
func SplitList(str string) []string {
	var out []string
	for _, part := range strings.Split(str, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate catches settings go-env cannot express.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength)
	}
	if c.ConnectionBufferSize <= 0 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	}
	_, err := CharacterRune(c.CharReplacement)
	return err
}
