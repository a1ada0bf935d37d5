package backend

import (
	"errors"
	"fmt"

	"ghginventory/internal/config"
)

// FromAppConfig converts the application config to sink config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	sinkType := SinkType(appConfig.SinkBackend)
	if !sinkType.IsValid() {
		return Config{}, fmt.Errorf("invalid sink type in config: %s", appConfig.SinkBackend)
	}

	return Config{
		Type: sinkType,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the sink configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid sink type: %s", c.Type)
	}

	switch c.Type {
	case SheetsSink:
		if c.GoogleSpreadsheetID == "" {
			return errors.New("google spreadsheet id is required for sheets sink")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			return errors.New("either GoogleServiceAccountJSON or GoogleServiceAccountFile must be provided for sheets sink")
		}
	case MemorySink:
		// nothing to check
	}

	return nil
}

// GetSinkTypes returns all valid sink types
func GetSinkTypes() []SinkType {
	return []SinkType{MemorySink, SheetsSink}
}

// GetSinkTypeStrings returns all valid sink type strings
func GetSinkTypeStrings() []string {
	types := GetSinkTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
