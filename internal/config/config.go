package config

import (
	"encoding/json"
	"os"
)

// Remote is settings for connection to the metadata discovery service
type Remote struct {
	Scheme string
	Host   string
	Port   int
	Path   string
}

type Directories struct {
	// Stubs is a path to the catalog of pre-authored stub media files
	Stubs string

	// State is a directory with the persistent registries
	State string
}

// Sync is settings of the reconciliation engine
type Sync struct {
	// IncludeMissingSpecials enables processing of season 0 entries
	IncludeMissingSpecials bool `json:"include-missing-specials"`

	// RemoveMissingEpisodes forces deletion of synthetic entries when the
	// remote catalog reports nothing
	RemoveMissingEpisodes bool `json:"remove-missing-episodes"`

	// CreateStubFiles enables stub files for missing episodes
	CreateStubFiles bool `json:"create-stub-files"`

	// Language of remote metadata
	Language string
}

// Configuration represents entire service configuration
type Configuration struct {
	// MongoDB connection string
	Database string

	// Device API key
	Device string

	Directories Directories

	// Remote is settings to connect to the metadata source
	Remote Remote

	Sync Sync
}

var config Configuration

// Load open and parses configuration file
func Load(configFilePath string) error {
	// defaults which differ from zero values
	config.Sync.CreateStubFiles = true
	config.Sync.Language = "en"

	f, err := os.Open(configFilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(&config)
}

// Config returns loaded configuration
func Config() Configuration {
	return config
}
