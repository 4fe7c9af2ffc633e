package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/hermecp/mapacuestionario/configs"
)

// ProfileNone disables profile merging.
const ProfileNone = "none"

// Profile describes one survey's shape: which columns hold coordinates and
// which columns are never offered as questions.
type Profile struct {
	Name            string   `yaml:"name"`
	LatitudeColumn  string   `yaml:"latitude_column"`
	LongitudeColumn string   `yaml:"longitude_column"`
	ExcludedColumns []string `yaml:"excluded_columns"`
}

// ParseProfile decodes a profile document. The YAML has a top-level
// "survey" key.
func ParseProfile(data []byte) (*Profile, error) {
	var wrapper struct {
		Survey Profile `yaml:"survey"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "config: parse survey profile")
	}
	return &wrapper.Survey, nil
}

// LoadProfile reads a profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read survey profile %s", path)
	}
	return ParseProfile(data)
}

// ApplyProfile merges the configured survey profile into c.Survey. An empty
// survey.profile uses the built-in profile; "none" skips merging. Profile
// coordinate columns replace the configured ones and excluded columns are
// appended without duplicates.
func (c *Config) ApplyProfile() error {
	var (
		p   *Profile
		err error
	)
	switch strings.TrimSpace(c.Survey.Profile) {
	case ProfileNone:
		return nil
	case "":
		p, err = ParseProfile(configs.DefaultProfile)
	default:
		p, err = LoadProfile(c.Survey.Profile)
	}
	if err != nil {
		return err
	}
	c.Survey.Merge(p)
	return nil
}

// Merge folds p into s.
func (s *SurveyConfig) Merge(p *Profile) {
	if p.LatitudeColumn != "" {
		s.LatitudeColumn = p.LatitudeColumn
	}
	if p.LongitudeColumn != "" {
		s.LongitudeColumn = p.LongitudeColumn
	}

	seen := make(map[string]bool, len(s.ExcludedColumns))
	for _, col := range s.ExcludedColumns {
		seen[strings.TrimSpace(col)] = true
	}
	for _, col := range p.ExcludedColumns {
		key := strings.TrimSpace(col)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		s.ExcludedColumns = append(s.ExcludedColumns, col)
	}
}
