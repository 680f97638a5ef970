package describe_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/commands/describe"
)

func seedRecord(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	storage := store.NewFileSystem(afero.NewOsFs(), dir)

	man := integrity.NewManifest()
	man.Upsert(integrity.ManifestEntry{
		Key:              record.YearManifestKey(2029).String(),
		Checksum:         integrity.ChecksumBytes([]byte("year manifest bytes")),
		NumberOfEvents:   1,
		NumberOfVersions: 1,
		MimeType:         "application/json",
		SizeBytes:        42,
	})
	require.NoError(t, storage.StoreManifest(context.Background(), record.EPrintsManifestKey(), man))
	return dir
}

func TestDescribeTextOutput(t *testing.T) {
	dir := seedRecord(t)

	cmd := describe.New().ToCLI()
	var buf bytes.Buffer
	cmd.Writer = &buf

	err := cmd.Run(context.Background(), []string{"describe", dir, "arxiv:///e-prints.manifest.json"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "events: 1  versions: 1")
	assert.Contains(t, out, record.YearManifestKey(2029).String())
	assert.Contains(t, out, "md5:")
	assert.Contains(t, out, "application/json")
}

func TestDescribeJSONOutput(t *testing.T) {
	dir := seedRecord(t)

	cmd := describe.New().ToCLI()
	var buf bytes.Buffer
	cmd.Writer = &buf

	err := cmd.Run(context.Background(), []string{"describe", "--format", "json", dir, "arxiv:///e-prints.manifest.json"})
	require.NoError(t, err)

	var out struct {
		Checksum       string `json:"checksum"`
		NumberOfEvents int    `json:"number_of_events"`
		Entries        []struct {
			Key    string `json:"key"`
			Digest string `json:"digest"`
			Size   int64  `json:"size"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out.Checksum)
	assert.Equal(t, 1, out.NumberOfEvents)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, int64(42), out.Entries[0].Size)
}

func TestDescribeRejectsMalformedKey(t *testing.T) {
	dir := seedRecord(t)

	cmd := describe.New().ToCLI()
	var buf bytes.Buffer
	cmd.Writer = &buf

	err := cmd.Run(context.Background(), []string{"describe", dir, "arxiv:///not/a/recognized/shape.txt"})
	assert.ErrorIs(t, err, record.ErrBadKey)
}
