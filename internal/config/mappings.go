package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/vaultkit/internal/analyzer"
	"github.com/aidanlsb/vaultkit/internal/atomicfile"
	"github.com/aidanlsb/vaultkit/internal/slugs"
)

// Mappings schema metadata written into new files.
const (
	MappingsVersion       = "1.0.0"
	MappingsSchemaVersion = "1.0"
)

// Auto-processing schedules accepted in vault mappings.
const (
	ScheduleManual = "manual"
	ScheduleDaily  = "daily"
	ScheduleWeekly = "weekly"
)

// ErrVaultNotFound is returned when a vault ID is not in the mappings.
var ErrVaultNotFound = errors.New("vault not found")

// ErrDuplicateVault is returned when adding a vault whose path is already configured.
var ErrDuplicateVault = errors.New("vault already configured")

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Mappings is the contents of vault-mappings.yaml.
type Mappings struct {
	Vaults         []VaultMapping   `yaml:"vaults" json:"vaults"`
	GlobalDefaults GlobalDefaults   `yaml:"globalDefaults" json:"globalDefaults"`
	Metadata       MappingsMetadata `yaml:"metadata" json:"metadata"`
}

// VaultMapping is one configured vault.
type VaultMapping struct {
	ID                 string            `yaml:"id" json:"id"`
	Name               string            `yaml:"name" json:"name"`
	Path               string            `yaml:"path" json:"path"`
	Enabled            bool              `yaml:"enabled" json:"enabled"`
	OrganizationMethod string            `yaml:"organizationMethod" json:"organizationMethod"`
	KeyLocations       map[string]string `yaml:"keyLocations,omitempty" json:"keyLocations,omitempty"`
	AgentsEnabled      []string          `yaml:"agentsEnabled" json:"agentsEnabled"`
	AutoProcessing     AutoProcessing    `yaml:"autoProcessing" json:"autoProcessing"`
	ExcludedFolders    []string          `yaml:"excludedFolders" json:"excludedFolders"`
}

// AutoProcessing schedules agent runs for a vault.
type AutoProcessing struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Schedule string `yaml:"schedule" json:"schedule"`
	Time     string `yaml:"time" json:"time"`
}

// GlobalDefaults apply to vaults that do not override them.
type GlobalDefaults struct {
	AutoProcessing  AutoProcessing `yaml:"autoProcessing" json:"autoProcessing"`
	ExcludedFolders []string       `yaml:"excludedFolders" json:"excludedFolders"`
	AgentsEnabled   []string       `yaml:"agentsEnabled" json:"agentsEnabled"`
}

// MappingsMetadata tracks the file's schema and last write date.
type MappingsMetadata struct {
	Version             string `yaml:"version" json:"version"`
	LastUpdated         string `yaml:"lastUpdated" json:"lastUpdated"`
	ConfigSchemaVersion string `yaml:"configSchemaVersion" json:"configSchemaVersion"`
}

// OrganizationMethods lists the accepted organizationMethod values.
func OrganizationMethods() []string {
	return []string{
		analyzer.MethodPARA,
		analyzer.MethodZettelkasten,
		analyzer.MethodLYT,
		analyzer.MethodJohnnyDecimal,
		analyzer.MethodCustom,
	}
}

// NormalizeOrganizationMethod maps user input to a canonical method key.
// "johnny-decimal" and "johnny_decimal" are accepted for johnnyDecimal.
func NormalizeOrganizationMethod(method string) (string, error) {
	m := strings.TrimSpace(method)
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(m)) {
	case "para":
		return analyzer.MethodPARA, nil
	case "zettelkasten":
		return analyzer.MethodZettelkasten, nil
	case "lyt":
		return analyzer.MethodLYT, nil
	case "johnnydecimal":
		return analyzer.MethodJohnnyDecimal, nil
	case "custom":
		return analyzer.MethodCustom, nil
	}
	return "", fmt.Errorf("invalid organization method %q (valid: para, zettelkasten, lyt, johnny-decimal, custom)", method)
}

// DefaultMappings returns an empty mappings file with default globals.
func DefaultMappings(now time.Time) *Mappings {
	return &Mappings{
		Vaults: []VaultMapping{},
		GlobalDefaults: GlobalDefaults{
			AutoProcessing:  AutoProcessing{Enabled: false, Schedule: ScheduleManual, Time: "09:00"},
			ExcludedFolders: []string{".trash", ".obsidian", ".git"},
			AgentsEnabled:   append([]string(nil), analyzer.DefaultAgents...),
		},
		Metadata: MappingsMetadata{
			Version:             MappingsVersion,
			LastUpdated:         now.Format(time.DateOnly),
			ConfigSchemaVersion: MappingsSchemaVersion,
		},
	}
}

// LoadMappings reads vault-mappings.yaml. A missing file yields DefaultMappings.
func LoadMappings(path string) (*Mappings, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("mappings path is required")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultMappings(time.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings %s: %w", path, err)
	}

	m := DefaultMappings(time.Now())
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse mappings %s: %w", path, err)
	}
	if m.Vaults == nil {
		m.Vaults = []VaultMapping{}
	}
	return m, nil
}

// SaveMappings validates m, stamps metadata.lastUpdated with now and writes it atomically.
func SaveMappings(path string, m *Mappings, now time.Time) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("mappings path is required")
	}
	if m == nil {
		m = DefaultMappings(now)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid mappings: %w", err)
	}

	if m.Metadata.Version == "" {
		m.Metadata.Version = MappingsVersion
	}
	if m.Metadata.ConfigSchemaVersion == "" {
		m.Metadata.ConfigSchemaVersion = MappingsSchemaVersion
	}
	m.Metadata.LastUpdated = now.Format(time.DateOnly)

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}

	if err := atomicfile.Write(path, data, atomicfile.WithPerm(0o644), atomicfile.WithParents()); err != nil {
		return fmt.Errorf("failed to write mappings %s: %w", path, err)
	}
	return nil
}

// Validate checks every vault entry and rejects duplicate IDs or paths.
func (m *Mappings) Validate() error {
	ids := make(map[string]bool, len(m.Vaults))
	paths := make(map[string]bool, len(m.Vaults))
	for i := range m.Vaults {
		v := &m.Vaults[i]
		if err := v.Validate(); err != nil {
			return fmt.Errorf("vault %d (%s): %w", i, v.ID, err)
		}
		if ids[v.ID] {
			return fmt.Errorf("duplicate vault id %q", v.ID)
		}
		if paths[v.Path] {
			return fmt.Errorf("duplicate vault path %q", v.Path)
		}
		ids[v.ID] = true
		paths[v.Path] = true
	}
	return m.GlobalDefaults.AutoProcessing.Validate()
}

// Validate checks a single vault entry.
func (v VaultMapping) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.ID, validation.Required),
		validation.Field(&v.Name, validation.Required),
		validation.Field(&v.Path,
			validation.Required,
			validation.By(absolutePath),
		),
		validation.Field(&v.OrganizationMethod,
			validation.Required,
			validation.In(stringsToAny(OrganizationMethods())...),
		),
		validation.Field(&v.AutoProcessing),
	)
}

// Validate checks the schedule and time fields.
func (a AutoProcessing) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Schedule, validation.In(ScheduleManual, ScheduleDaily, ScheduleWeekly)),
		validation.Field(&a.Time, validation.Match(timeOfDay).Error("must be HH:MM")),
	)
}

func absolutePath(value interface{}) error {
	s, _ := value.(string)
	if !isAbsolutePath(s) {
		return errors.New("must be an absolute path")
	}
	return nil
}

func stringsToAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Find returns the vault with id.
func (m *Mappings) Find(id string) (*VaultMapping, error) {
	for i := range m.Vaults {
		if m.Vaults[i].ID == id {
			return &m.Vaults[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, id)
}

// FindByPath returns the vault configured at path, or nil.
func (m *Mappings) FindByPath(path string) *VaultMapping {
	for i := range m.Vaults {
		if m.Vaults[i].Path == path {
			return &m.Vaults[i]
		}
	}
	return nil
}

// UniqueID returns base or the first free base-N variant.
func (m *Mappings) UniqueID(base string) string {
	return slugs.Unique(base, func(id string) bool {
		_, err := m.Find(id)
		return err == nil
	})
}

// Add appends v, renaming its ID on collision. The stored entry is returned.
func (m *Mappings) Add(v VaultMapping) (*VaultMapping, error) {
	if existing := m.FindByPath(v.Path); existing != nil {
		return existing, fmt.Errorf("%w: %s", ErrDuplicateVault, existing.ID)
	}
	if v.ID == "" {
		v.ID = slugs.VaultID(v.Name)
	}
	v.ID = m.UniqueID(v.ID)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	m.Vaults = append(m.Vaults, v)
	return &m.Vaults[len(m.Vaults)-1], nil
}

// Remove deletes the vault with id and returns it.
func (m *Mappings) Remove(id string) (VaultMapping, error) {
	for i := range m.Vaults {
		if m.Vaults[i].ID == id {
			removed := m.Vaults[i]
			m.Vaults = append(m.Vaults[:i], m.Vaults[i+1:]...)
			return removed, nil
		}
	}
	return VaultMapping{}, fmt.Errorf("%w: %s", ErrVaultNotFound, id)
}

// SetEnabled toggles a vault.
func (m *Mappings) SetEnabled(id string, enabled bool) error {
	v, err := m.Find(id)
	if err != nil {
		return err
	}
	v.Enabled = enabled
	return nil
}

// SetOrganization changes a vault's organization method.
func (m *Mappings) SetOrganization(id, method string) (string, error) {
	canonical, err := NormalizeOrganizationMethod(method)
	if err != nil {
		return "", err
	}
	v, err := m.Find(id)
	if err != nil {
		return "", err
	}
	v.OrganizationMethod = canonical
	return canonical, nil
}

// MappingFromSuggestion converts an analyzer suggestion into a mappings entry.
func MappingFromSuggestion(s *analyzer.ConfigSuggestion) VaultMapping {
	locations := make(map[string]string, len(s.KeyLocations))
	for k, v := range s.KeyLocations {
		locations[k] = v
	}
	return VaultMapping{
		ID:                 s.ID,
		Name:               s.Name,
		Path:               s.Path,
		Enabled:            s.Enabled,
		OrganizationMethod: s.OrganizationMethod,
		KeyLocations:       locations,
		AgentsEnabled:      append([]string(nil), s.AgentsEnabled...),
		AutoProcessing: AutoProcessing{
			Enabled:  s.AutoProcessing.Enabled,
			Schedule: s.AutoProcessing.Schedule,
			Time:     s.AutoProcessing.Time,
		},
		ExcludedFolders: append([]string(nil), s.ExcludedFolders...),
	}
}
