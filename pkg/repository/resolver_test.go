package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/presentation"
)

// mockItem implements presentation.Item for routing tests.
type mockItem struct {
	presentation.Item
	id itemid.ItemID
}

func (m *mockItem) ID() string { return m.id.String() }

func (m *mockItem) Label(ctx context.Context) (string, error) {
	return m.id.Path(), nil
}

// mockBackend implements Backend for testing.
type mockBackend struct {
	provider itemid.ProviderType
	err      error
}

func (m *mockBackend) Provider() itemid.ProviderType { return m.provider }

func (m *mockBackend) NewItem(id itemid.ItemID) (presentation.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &mockItem{id: id}, nil
}

func TestResolver_Register(t *testing.T) {
	r := NewResolver(hclog.NewNullLogger())

	require.NoError(t, r.Register(&mockBackend{provider: itemid.ProviderTypeFedora2}))
	require.NoError(t, r.Register(&mockBackend{provider: itemid.ProviderTypeFcrepo}))

	err := r.Register(&mockBackend{provider: itemid.ProviderTypeFcrepo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = r.Register(&mockBackend{provider: "fedora3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid provider type")

	assert.Equal(t, []itemid.ProviderType{itemid.ProviderTypeFcrepo, itemid.ProviderTypeFedora2}, r.Providers())
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(nil)
	require.NoError(t, r.Register(&mockBackend{provider: itemid.ProviderTypeFcrepo}))
	require.NoError(t, r.Register(&mockBackend{
		provider: itemid.ProviderTypeFedora2,
		err:      errors.New("pid cannot be empty"),
	}))

	tests := []struct {
		name        string
		id          string
		wantPath    string
		wantInvalid bool
	}{
		{
			name:     "fcrepo compressed path",
			id:       "fcrepo:pcdm::aabbccdd-thesis",
			wantPath: "pcdm::aabbccdd-thesis",
		},
		{
			name:     "escaped separators are decoded",
			id:       "fcrepo:pcdm%2Ffiles",
			wantPath: "pcdm/files",
		},
		{
			name:        "unknown prefix",
			id:          "fedora3:umd:1",
			wantInvalid: true,
		},
		{
			name:        "no prefix",
			id:          "nothing",
			wantInvalid: true,
		},
		{
			name:        "empty path",
			id:          "fcrepo:",
			wantInvalid: true,
		},
		{
			name:        "backend rejects identifier",
			id:          "fedora2:x",
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := r.Resolve(tt.id)
			if tt.wantInvalid {
				require.Error(t, err)
				assert.True(t, errors.Is(err, presentation.ErrInvalidID))
				return
			}
			require.NoError(t, err)
			label, err := item.Label(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, label)
		})
	}
}

func TestResolver_BackendNotRegistered(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Backend(itemid.ProviderTypeFcrepo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, presentation.ErrInvalidID))
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: ""},
		{value: "http://solr.test/solr/"},
		{value: "https://iiif.test/manifests/"},
		{value: "https://iiif.test/manifests", wantErr: true},
		{value: "ftp://iiif.test/", wantErr: true},
		{value: "/relative/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := BaseURL.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
