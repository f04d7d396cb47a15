package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// StorageAuto picks blob storage when blob credentials are present,
	// local disk otherwise.
	StorageAuto  = ""
	StorageLocal = "local"
	StorageBlob  = "blob"
)

type Config struct {
	Addr       string
	AdminToken string

	Storage string
	DataDir string

	BlobEndpoint  string
	BlobAccessKey string
	BlobSecretKey string
	BlobBucket    string
	BlobSecure    bool

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	Debug bool
}

func ParseFlags() (cfg Config, err error) {
	// secrets usually come through the environment; .env is a dev nicety
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.AdminToken, "admin-token", os.Getenv("ADMIN_TOKEN"), "shared secret for the admin API")
	flag.StringVar(&cfg.Storage, "storage", os.Getenv("STORAGE_BACKEND"), "storage backend: local or blob (default: blob if credentials are set)")
	flag.StringVar(&cfg.DataDir, "data-dir", envOr("DATA_DIR", os.TempDir()), "writable directory for the local storage backend")
	flag.StringVar(&cfg.BlobEndpoint, "blob-endpoint", os.Getenv("BLOB_ENDPOINT"), "S3-compatible blob store endpoint")
	flag.StringVar(&cfg.BlobAccessKey, "blob-access-key", os.Getenv("BLOB_ACCESS_KEY"), "blob store access key")
	flag.StringVar(&cfg.BlobSecretKey, "blob-secret-key", os.Getenv("BLOB_SECRET_KEY"), "blob store secret key")
	flag.StringVar(&cfg.BlobBucket, "blob-bucket", envOr("BLOB_BUCKET", "surwhen"), "blob store bucket name")
	flag.BoolVar(&cfg.BlobSecure, "blob-secure", os.Getenv("BLOB_INSECURE") == "", "use TLS for the blob store")
	flag.StringVar(&cfg.SMTPHost, "smtp-host", os.Getenv("SMTP_HOST"), "SMTP server host (empty disables email)")
	flag.StringVar(&cfg.SMTPPort, "smtp-port", envOr("SMTP_PORT", "587"), "SMTP server port")
	flag.StringVar(&cfg.SMTPUser, "smtp-user", os.Getenv("SMTP_USER"), "SMTP user name")
	flag.StringVar(&cfg.SMTPPassword, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.SMTPFrom, "smtp-from", os.Getenv("SMTP_FROM"), "sender address for submission notifications")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))

	if cfg.AdminToken == "" {
		err = errors.New("missing parameter -admin-token")
		return
	}
	if cfg.Storage != StorageAuto && cfg.Storage != StorageLocal && cfg.Storage != StorageBlob {
		err = errors.New("invalid parameter -storage: must be local or blob")
		return
	}
	if cfg.Storage == StorageBlob && cfg.BlobAccessKey == "" {
		err = errors.New("-storage blob requires -blob-access-key")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
