package model

import "fmt"

// LibraryOptions are per-library settings of the virtual catalog feature
type LibraryOptions struct {
	ID string `bson:"_id,omitempty"`

	// Enabled turns the whole reconciliation feature on for the library
	Enabled bool

	// SeasonNameFormat is a display name template for a regular season
	SeasonNameFormat string `bson:"seasonnameformat"`

	// SpecialsName is a display name of season 0
	SpecialsName string `bson:"specialsname"`

	// Language of the remote metadata
	Language string
}

func DefaultLibraryOptions(id string) *LibraryOptions {
	return &LibraryOptions{
		ID:               id,
		Enabled:          true,
		SeasonNameFormat: "Season %d",
		SpecialsName:     "Specials",
		Language:         "en",
	}
}

// SeasonName builds a display name for a season, which is also used as the
// name of the season directory under the series root
func (o *LibraryOptions) SeasonName(no int) string {
	if no == 0 {
		return o.SpecialsName
	}
	return fmt.Sprintf(o.SeasonNameFormat, no)
}
