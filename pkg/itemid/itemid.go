package itemid

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/umd-lib/iiif/pkg/pathcodec"
)

// ProviderType identifies the repository backend an item lives in.
type ProviderType string

const (
	// ProviderTypeFcrepo identifies Fedora 4 (fcrepo) objects indexed in Solr.
	ProviderTypeFcrepo ProviderType = "fcrepo"

	// ProviderTypeFedora2 identifies legacy Fedora 2 objects described by METS.
	ProviderTypeFedora2 ProviderType = "fedora2"
)

// ValidProviderTypes returns all valid provider types.
func ValidProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderTypeFcrepo,
		ProviderTypeFedora2,
	}
}

// IsValid returns true if this is a recognized provider type.
func (pt ProviderType) IsValid() bool {
	switch pt {
	case ProviderTypeFcrepo, ProviderTypeFedora2:
		return true
	default:
		return false
	}
}

// String returns the string representation of the provider type.
func (pt ProviderType) String() string {
	return string(pt)
}

// ItemID is the external identifier of a repository item.
//
// Each provider type has a different path format:
//   - fcrepo: compressed repository path (e.g., "pcdm::aabbccdd-thesis")
//   - fedora2: PID with optional service PID (e.g., "umd:1234_umd:5678")
//
// ItemIDs are immutable once created.
type ItemID struct {
	provider ProviderType
	path     string
}

// New creates an item ID.
// Returns error if provider type is invalid or path is empty.
func New(provider ProviderType, path string) (ItemID, error) {
	if !provider.IsValid() {
		return ItemID{}, fmt.Errorf("invalid provider type: %s (valid: %v)",
			provider, ValidProviderTypes())
	}
	if path == "" {
		return ItemID{}, fmt.Errorf("item path cannot be empty")
	}
	return ItemID{provider: provider, path: path}, nil
}

// Provider returns the provider type.
func (i ItemID) Provider() ProviderType {
	return i.provider
}

// Path returns the provider-specific path, with escaped separators decoded.
func (i ItemID) Path() string {
	return i.path
}

// IsZero returns true if this is a zero ItemID.
func (i ItemID) IsZero() bool {
	return i.provider == "" && i.path == ""
}

// Equal returns true if two ItemIDs are equal.
func (i ItemID) Equal(other ItemID) bool {
	return i.provider == other.provider && i.path == other.path
}

// String returns the canonical string representation.
// Format: "provider:path" with path separators escaped
// (e.g., "fcrepo:pcdm::aabbccdd").
func (i ItemID) String() string {
	if i.IsZero() {
		return ""
	}
	return pathcodec.FormatID(string(i.provider), i.path)
}

// Parse parses an item ID from string.
// Expected format: "provider:path" (e.g., "fedora2:umd:1234"). The path may
// carry percent-escaped separators.
func Parse(s string) (ItemID, error) {
	if s == "" {
		return ItemID{}, fmt.Errorf("item ID string cannot be empty")
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return ItemID{}, fmt.Errorf(
			"invalid item ID format (expected 'provider:path'): %s", s)
	}

	path, err := url.PathUnescape(parts[1])
	if err != nil {
		return ItemID{}, fmt.Errorf("invalid item path %q: %w", parts[1], err)
	}

	return New(ProviderType(parts[0]), path)
}

// MarshalJSON implements json.Marshaler.
// Serializes as the canonical string form.
func (i ItemID) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(i.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *ItemID) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid ItemID JSON: %w", err)
	}
	if s == nil || *s == "" {
		*i = ItemID{}
		return nil
	}
	parsed, err := Parse(*s)
	if err != nil {
		return fmt.Errorf("invalid ItemID: %w", err)
	}
	*i = parsed
	return nil
}
