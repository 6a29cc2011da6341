package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout. The keys engine,
// bind_address, server_address, logfile and enable_logging are the ones the
// server.json and client.json files have always used; the rest are optional.
type StructuredJSONConfig struct {
	Engine           string   `json:"engine"`
	EngineArgs       []string `json:"engine_args,omitempty"`
	EngineEnv        []string `json:"engine_env,omitempty"`
	EngineWorkDir    string   `json:"engine_work_dir,omitempty"`
	TerminateTimeout Duration `json:"terminate_timeout,omitempty"`

	BindAddress        string   `json:"bind_address"`
	KeepAlive          Duration `json:"keep_alive,omitempty"`
	SkipExternalIP     bool     `json:"skip_external_ip,omitempty"`
	ExternalIPServices []string `json:"external_ip_services,omitempty"`
	ExternalIPTimeout  Duration `json:"external_ip_timeout,omitempty"`
	StatusAddress      string   `json:"status_address,omitempty"`

	ServerAddress  string   `json:"server_address"`
	DialTimeout    Duration `json:"dial_timeout,omitempty"`
	ConnectRetries int      `json:"connect_retries,omitempty"`
	RetryBackoff   Duration `json:"retry_backoff,omitempty"`

	LogFile       string `json:"logfile"`
	EnableLogging bool   `json:"enable_logging"`
	LogFormat     string `json:"log_format,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
	LogQueueSize  int    `json:"log_queue_size,omitempty"`

	MaxLineLength int      `json:"max_line_length,omitempty"`
	DrainTimeout  Duration `json:"drain_timeout,omitempty"`
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
		Engine: Engine{
			Path:             jsonCfg.Engine,
			Args:             jsonCfg.EngineArgs,
			Env:              jsonCfg.EngineEnv,
			WorkDir:          jsonCfg.EngineWorkDir,
			TerminateTimeout: time.Duration(jsonCfg.TerminateTimeout),
		},
		Server: Server{
			BindAddress:        jsonCfg.BindAddress,
			KeepAlive:          time.Duration(jsonCfg.KeepAlive),
			SkipExternalIP:     jsonCfg.SkipExternalIP,
			ExternalIPServices: jsonCfg.ExternalIPServices,
			ExternalIPTimeout:  time.Duration(jsonCfg.ExternalIPTimeout),
			StatusAddress:      jsonCfg.StatusAddress,
		},
		Client: Client{
			ServerAddress:  jsonCfg.ServerAddress,
			DialTimeout:    time.Duration(jsonCfg.DialTimeout),
			ConnectRetries: jsonCfg.ConnectRetries,
			RetryBackoff:   time.Duration(jsonCfg.RetryBackoff),
		},
		Log: Log{
			Enabled:   jsonCfg.EnableLogging,
			File:      jsonCfg.LogFile,
			Format:    jsonCfg.LogFormat,
			Level:     jsonCfg.LogLevel,
			QueueSize: jsonCfg.LogQueueSize,
		},
		Relay: Relay{
			MaxLineLength: jsonCfg.MaxLineLength,
			DrainTimeout:  time.Duration(jsonCfg.DrainTimeout),
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
