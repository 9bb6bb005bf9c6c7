package powertrack

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sunwatt-io/powertrack/internal/constants"
)

// SiteEntry is one site in a saved site list. Fields beyond key and name are
// preserved round-trip in Metadata.
type SiteEntry struct {
	Key      string
	Name     string
	Metadata map[string]interface{}
}

// UnmarshalJSON folds unknown fields into Metadata.
func (e *SiteEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("parsing site entry: %w", err)
	}

	if key, ok := raw["key"].(string); ok {
		e.Key = key
	}

	if name, ok := raw["name"].(string); ok {
		e.Name = name
	}

	delete(raw, "key")
	delete(raw, "name")

	if len(raw) > 0 {
		e.Metadata = raw
	}

	return nil
}

// MarshalJSON flattens Metadata back beside key and name.
func (e SiteEntry) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(e.Metadata)+2)
	for key, value := range e.Metadata {
		flat[key] = value
	}

	flat["key"] = e.Key
	flat["name"] = e.Name

	encoded, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("encoding site entry: %w", err)
	}

	return encoded, nil
}

// SiteList is a persisted snapshot of sites, typically the input to a batch
// run.
type SiteList struct {
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Sites    []SiteEntry            `json:"sites"`
}

// LoadSiteList reads a site list from a JSON file.
func LoadSiteList(path string) (*SiteList, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-chosen snapshot path
	if err != nil {
		return nil, fmt.Errorf("reading site list: %w", err)
	}

	var list SiteList

	err = json.Unmarshal(data, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing site list: %w", err)
	}

	return &list, nil
}

// Save writes the site list to a JSON file.
func (l *SiteList) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding site list: %w", err)
	}

	err = os.WriteFile(path, data, constants.SnapshotFilePerm)
	if err != nil {
		return fmt.Errorf("writing site list: %w", err)
	}

	return nil
}

// Len returns the number of sites in the list.
func (l *SiteList) Len() int {
	return len(l.Sites)
}

// GetByKey finds a site by normalized key.
func (l *SiteList) GetByKey(key string) (*SiteEntry, error) {
	normalized := NormalizeSiteID(key)
	for index := range l.Sites {
		if NormalizeSiteID(l.Sites[index].Key) == normalized {
			return &l.Sites[index], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrSiteNotInList, key)
}

// FilterByKeys returns a new list containing only the requested sites,
// preserving the original order.
func (l *SiteList) FilterByKeys(keys []string) *SiteList {
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[NormalizeSiteID(key)] = true
	}

	filtered := &SiteList{Metadata: l.Metadata}

	for _, site := range l.Sites {
		if wanted[NormalizeSiteID(site.Key)] {
			filtered.Sites = append(filtered.Sites, site)
		}
	}

	return filtered
}

// Keys returns the normalized site keys in list order.
func (l *SiteList) Keys() []string {
	keys := make([]string, 0, len(l.Sites))
	for _, site := range l.Sites {
		keys = append(keys, NormalizeSiteID(site.Key))
	}

	return keys
}
