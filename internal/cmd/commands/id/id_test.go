package id

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"

	"github.com/umd-lib/iiif/internal/cmd/base"
)

func newBase() (*base.Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	return base.New(hclog.NewNullLogger(), ui), ui
}

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:    "pairtree path",
			args:    []string{"fcrepo", "pcdm/aa/bb/cc/dd/aabbccdd-thesis"},
			wantOut: "fcrepo:pcdm::aabbccdd-thesis",
		},
		{
			name:    "plain path",
			args:    []string{"fcrepo", "pcdm/collection/c1"},
			wantOut: "fcrepo:pcdm:collection:c1",
		},
		{
			name:     "unknown prefix",
			args:     []string{"dspace", "123"},
			wantCode: 1,
			wantErr:  `unknown prefix "dspace"`,
		},
		{
			name:     "missing path",
			args:     []string{"fcrepo"},
			wantCode: 1,
			wantErr:  "expected a prefix and a path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ui := newBase()
			code := (&EncodeCommand{Command: b}).Run(tt.args)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, strings.TrimSpace(ui.OutputWriter.String()))
			assert.Contains(t, ui.ErrorWriter.String(), tt.wantErr)
		})
	}
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:    "fcrepo",
			args:    []string{"fcrepo:pcdm::aabbccdd-thesis"},
			wantOut: "fcrepo\tpcdm/aa/bb/cc/dd/aabbccdd-thesis",
		},
		{
			name:    "escaped separator",
			args:    []string{"fcrepo:pcdm::aabbccdd-thesis%2Ffiles"},
			wantOut: "fcrepo\tpcdm/aa/bb/cc/dd/aabbccdd-thesis/files",
		},
		{
			name:    "fedora2 pid is left alone",
			args:    []string{"fedora2:umd:1234_umd:5678"},
			wantOut: "fedora2\tumd:1234_umd:5678",
		},
		{
			name:     "malformed",
			args:     []string{"nocolon"},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ui := newBase()
			code := (&DecodeCommand{Command: b}).Run(tt.args)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, strings.TrimSpace(ui.OutputWriter.String()))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	path := "pcdm/aa/bb/cc/dd/aabbccdd-thesis"

	b, ui := newBase()
	assert.Equal(t, 0, (&EncodeCommand{Command: b}).Run([]string{"fcrepo", path}))
	id := strings.TrimSpace(ui.OutputWriter.String())

	b, ui = newBase()
	assert.Equal(t, 0, (&DecodeCommand{Command: b}).Run([]string{id}))
	assert.Equal(t, "fcrepo\t"+path, strings.TrimSpace(ui.OutputWriter.String()))
}
