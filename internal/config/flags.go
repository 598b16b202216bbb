package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d catalog database path
//	-b blob storage directory
//	-c/-config json file path with configs
//	-passphrase vault passphrase
//	-max-vault-size vault capacity in bytes
//	-quarantine-threshold confidence threshold for quarantine
//	-high-risk-threshold confidence threshold for auto-destruction
//	-auto-delete-high-risk enable auto-destruction of high-risk content
//	-allow-patterns comma-separated allow patterns
//	-deny-patterns comma-separated deny patterns
//	-deletion-method default secure-deletion method id
//	-max-concurrent-jobs deletion job concurrency bound
//	-retention deletion history retention (e.g., "720h")
//	-classifier-url remote classifier base URL
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-rescan-interval policy rescan sweep interval
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var blobsDir string
	var jsonConfigPath string
	var passphrase string
	var maxVaultSize int64
	var quarantineThreshold, highRiskThreshold float64
	var autoDeleteHighRisk bool
	var allowPatterns, denyPatterns string
	var deletionMethod string
	var maxConcurrentJobs int64
	var retention time.Duration
	var classifierURL string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var rescanInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Catalog database path")
	flag.StringVar(&blobsDir, "b", "", "Blob storage directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&passphrase, "passphrase", "", "Vault passphrase")
	flag.Int64Var(&maxVaultSize, "max-vault-size", 0, "Vault capacity in bytes (0 = unlimited)")
	flag.Float64Var(&quarantineThreshold, "quarantine-threshold", 0, "Quarantine confidence threshold")
	flag.Float64Var(&highRiskThreshold, "high-risk-threshold", 0, "Auto-destruction confidence threshold")
	flag.BoolVar(&autoDeleteHighRisk, "auto-delete-high-risk", false, "Destroy high-risk content automatically")
	flag.StringVar(&allowPatterns, "allow-patterns", "", "Comma-separated allow patterns")
	flag.StringVar(&denyPatterns, "deny-patterns", "", "Comma-separated deny patterns")
	flag.StringVar(&deletionMethod, "deletion-method", "", "Default secure-deletion method id")
	flag.Int64Var(&maxConcurrentJobs, "max-concurrent-jobs", 0, "Deletion job concurrency bound")
	flag.DurationVar(&retention, "retention", 0, "Deletion history retention (e.g., 720h)")
	flag.StringVar(&classifierURL, "classifier-url", "", "Remote classifier base URL")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&rescanInterval, "rescan-interval", 0, "Policy rescan sweep interval")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Passphrase:    passphrase,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Vault: Vault{
			MaxSize: maxVaultSize,
		},
		Quarantine: Quarantine{
			QuarantineThreshold: quarantineThreshold,
			HighRiskThreshold:   highRiskThreshold,
			AutoDeleteHighRisk:  autoDeleteHighRisk,
			AllowPatterns:       splitPatterns(allowPatterns),
			DenyPatterns:        splitPatterns(denyPatterns),
		},
		Deletion: Deletion{
			DefaultMethod:     deletionMethod,
			MaxConcurrentJobs: maxConcurrentJobs,
			Retention:         retention,
		},
		Classifier: Classifier{
			URL: classifierURL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Blobs: Blobs{
				Dir: blobsDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			RescanInterval: rescanInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// splitPatterns turns a comma-separated flag value into a pattern list,
// dropping empty entries.
func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
