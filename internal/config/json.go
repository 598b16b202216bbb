package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON-friendly field
// types; durations accept both "1h30m" strings and nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		Passphrase    string   `json:"passphrase"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Vault struct {
		MaxSize int64 `json:"max_size"`
	} `json:"vault,omitempty"`

	Quarantine struct {
		QuarantineThreshold float64  `json:"threshold"`
		HighRiskThreshold   float64  `json:"high_risk_threshold"`
		AutoDeleteHighRisk  bool     `json:"auto_delete_high_risk"`
		AllowPatterns       []string `json:"allow_patterns"`
		DenyPatterns        []string `json:"deny_patterns"`
	} `json:"quarantine,omitempty"`

	Deletion struct {
		DefaultMethod     string   `json:"default_method"`
		MaxConcurrentJobs int64    `json:"max_concurrent_jobs"`
		Retention         Duration `json:"retention"`
	} `json:"deletion,omitempty"`

	Classifier struct {
		URL            string   `json:"url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"classifier,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Blobs struct {
			Dir string `json:"dir"`
		} `json:"blobs,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		RescanInterval Duration `json:"rescan_interval"`
		PruneInterval  Duration `json:"prune_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Passphrase:    jsonCfg.App.Passphrase,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Vault: Vault{
			MaxSize: jsonCfg.Vault.MaxSize,
		},
		Quarantine: Quarantine{
			QuarantineThreshold: jsonCfg.Quarantine.QuarantineThreshold,
			HighRiskThreshold:   jsonCfg.Quarantine.HighRiskThreshold,
			AutoDeleteHighRisk:  jsonCfg.Quarantine.AutoDeleteHighRisk,
			AllowPatterns:       jsonCfg.Quarantine.AllowPatterns,
			DenyPatterns:        jsonCfg.Quarantine.DenyPatterns,
		},
		Deletion: Deletion{
			DefaultMethod:     jsonCfg.Deletion.DefaultMethod,
			MaxConcurrentJobs: jsonCfg.Deletion.MaxConcurrentJobs,
			Retention:         time.Duration(jsonCfg.Deletion.Retention),
		},
		Classifier: Classifier{
			URL:            jsonCfg.Classifier.URL,
			RequestTimeout: time.Duration(jsonCfg.Classifier.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Blobs: Blobs{
				Dir: jsonCfg.Storage.Blobs.Dir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			RescanInterval: time.Duration(jsonCfg.Workers.RescanInterval),
			PruneInterval:  time.Duration(jsonCfg.Workers.PruneInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
