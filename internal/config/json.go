package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Backend struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"backend,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Sync struct {
		Interval        Duration `json:"interval"`
		BatchSize       int      `json:"batch_size"`
		MaxAttempts     int      `json:"max_attempts"`
		MaxInFlight     int      `json:"max_in_flight"`
		FreshnessWindow Duration `json:"freshness_window"`
	} `json:"sync,omitempty"`

	Auth struct {
		SessionToken string `json:"session_token"`
	} `json:"auth,omitempty"`
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
		Backend: Backend{
			Address:        jsonCfg.Backend.Address,
			RequestTimeout: time.Duration(jsonCfg.Backend.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Sync: Sync{
			Interval:        time.Duration(jsonCfg.Sync.Interval),
			BatchSize:       jsonCfg.Sync.BatchSize,
			MaxAttempts:     jsonCfg.Sync.MaxAttempts,
			MaxInFlight:     jsonCfg.Sync.MaxInFlight,
			FreshnessWindow: time.Duration(jsonCfg.Sync.FreshnessWindow),
		},
		Auth: Auth{
			SessionToken: jsonCfg.Auth.SessionToken,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
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
