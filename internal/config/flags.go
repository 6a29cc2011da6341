package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
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

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ParseFlags parses args (without the program name) into a config layer.
//
// Flags:
//
//	-c/-config json file path with configs
//	-engine engine executable path
//	-engine-arg engine argument (repeatable)
//	-engine-dir engine working directory
//	-terminate-timeout grace period before the engine is killed (e.g. "3s")
//	-a/-bind listen address in format [host]:[port]
//	-status-address status endpoint address in format [host]:[port]
//	-skip-external-ip do not look up the external IP at startup
//	-server remote server address in format [host]:[port]
//	-dial-timeout connection timeout (e.g. "10s")
//	-connect-retries extra connection attempts
//	-logfile traffic log file path
//	-enable-logging write the traffic log
//	-log-format traffic log format: text or json
//	-log-level diagnostic log level
//	-max-line-length maximum protocol line length in bytes
func ParseFlags(args []string) (*StructuredConfig, error) {
	var bindAddress, statusAddress, serverAddress NetAddress
	var jsonConfigPath string
	var enginePath, engineDir string
	var engineArgs stringList
	var terminateTimeout, dialTimeout time.Duration
	var skipExternalIP, enableLogging bool
	var connectRetries, maxLineLength int
	var logFile, logFormat, logLevel string

	fs := flag.NewFlagSet("uci-relay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&enginePath, "engine", "", "Engine executable path")
	fs.Var(&engineArgs, "engine-arg", "Engine argument (repeatable)")
	fs.StringVar(&engineDir, "engine-dir", "", "Engine working directory")
	fs.DurationVar(&terminateTimeout, "terminate-timeout", 0, "Grace period before the engine is killed (e.g., 3s)")
	fs.Var(&bindAddress, "a", "Listen address host:port")
	fs.Var(&bindAddress, "bind", "Listen address host:port (alias)")
	fs.Var(&statusAddress, "status-address", "Status endpoint address host:port")
	fs.BoolVar(&skipExternalIP, "skip-external-ip", false, "Do not look up the external IP")
	fs.Var(&serverAddress, "server", "Remote server address host:port")
	fs.DurationVar(&dialTimeout, "dial-timeout", 0, "Connection timeout (e.g., 10s)")
	fs.IntVar(&connectRetries, "connect-retries", 0, "Extra connection attempts")
	fs.StringVar(&logFile, "logfile", "", "Traffic log file path")
	fs.BoolVar(&enableLogging, "enable-logging", false, "Write the traffic log")
	fs.StringVar(&logFormat, "log-format", "", "Traffic log format: text or json")
	fs.StringVar(&logLevel, "log-level", "", "Diagnostic log level")
	fs.IntVar(&maxLineLength, "max-line-length", 0, "Maximum protocol line length in bytes")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Engine: Engine{
			Path:             enginePath,
			Args:             engineArgs,
			WorkDir:          engineDir,
			TerminateTimeout: terminateTimeout,
		},
		Server: Server{
			BindAddress:    bindAddress.String(),
			SkipExternalIP: skipExternalIP,
			StatusAddress:  statusAddress.String(),
		},
		Client: Client{
			ServerAddress:  serverAddress.String(),
			DialTimeout:    dialTimeout,
			ConnectRetries: connectRetries,
		},
		Log: Log{
			Enabled: enableLogging,
			File:    logFile,
			Format:  logFormat,
			Level:   logLevel,
		},
		Relay: Relay{
			MaxLineLength: maxLineLength,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host means all interfaces. The host must otherwise be an IP
// address or a DNS name.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "" && net.ParseIP(host) == nil && !isHostname(host) {
		return errors.New("incorrect host provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

// ValidateAddress reports whether s is an acceptable host:port.
func ValidateAddress(s string) error {
	return new(NetAddress).Set(s)
}

func isHostname(host string) bool {
	if len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
				return false
			}
		}
	}
	return true
}
