package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Remote struct {
		BaseURL        string   `json:"base_url"`
		AnonKey        string   `json:"anon_key"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	Storage struct {
		CacheDSN string `json:"cache_dsn"`
		GroupDir string `json:"group_dir"`
	} `json:"storage,omitempty"`

	Vendors struct {
		ExtractorURL         string `json:"extractor_url"`
		ExtractorKey         string `json:"extractor_key"`
		FallbackExtractorURL string `json:"fallback_extractor_url"`
		FallbackExtractorKey string `json:"fallback_extractor_key"`
		TranscriberURL       string `json:"transcriber_url"`
		TranscriberKey       string `json:"transcriber_key"`
		LLMURL               string `json:"llm_url"`
		LLMKey               string `json:"llm_key"`
		LLMModel             string `json:"llm_model"`
	} `json:"vendors,omitempty"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval"`
		DrainInterval   Duration `json:"drain_interval"`
		CleanupInterval Duration `json:"cleanup_interval"`
	} `json:"workers,omitempty"`

	Logs struct {
		Dir string `json:"dir"`
	} `json:"logs,omitempty"`
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
		Remote: Remote{
			BaseURL:        jsonCfg.Remote.BaseURL,
			AnonKey:        jsonCfg.Remote.AnonKey,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		Storage: Storage{
			CacheDSN: jsonCfg.Storage.CacheDSN,
			GroupDir: jsonCfg.Storage.GroupDir,
		},
		Vendors: Vendors{
			ExtractorURL:         jsonCfg.Vendors.ExtractorURL,
			ExtractorKey:         jsonCfg.Vendors.ExtractorKey,
			FallbackExtractorURL: jsonCfg.Vendors.FallbackExtractorURL,
			FallbackExtractorKey: jsonCfg.Vendors.FallbackExtractorKey,
			TranscriberURL:       jsonCfg.Vendors.TranscriberURL,
			TranscriberKey:       jsonCfg.Vendors.TranscriberKey,
			LLMURL:               jsonCfg.Vendors.LLMURL,
			LLMKey:               jsonCfg.Vendors.LLMKey,
			LLMModel:             jsonCfg.Vendors.LLMModel,
		},
		Workers: Workers{
			RefreshInterval: time.Duration(jsonCfg.Workers.RefreshInterval),
			DrainInterval:   time.Duration(jsonCfg.Workers.DrainInterval),
			CleanupInterval: time.Duration(jsonCfg.Workers.CleanupInterval),
		},
		Logs:         Logs{Dir: jsonCfg.Logs.Dir},
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
