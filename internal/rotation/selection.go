package rotation

import (
	"fmt"

	"autoposter/internal/domain"
	"autoposter/internal/jsonfile"
)

// Selection is a hand-picked list of assets to publish.
type Selection struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Paths returns images first, then videos.
func (s *Selection) Paths() []string {
	paths := make([]string, 0, len(s.Images)+len(s.Videos))
	paths = append(paths, s.Images...)
	return append(paths, s.Videos...)
}

// LoadSelection reads a selection file. A missing file is an empty
// selection.
func LoadSelection(path string) (*Selection, error) {
	var sel Selection
	err := jsonfile.Read(path, &sel)
	if jsonfile.IsNotExist(err) {
		return &Selection{}, nil
	}
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, "load selection", fmt.Errorf("%s: %w", path, err))
	}
	return &sel, nil
}
