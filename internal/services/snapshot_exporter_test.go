package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/spicecms/domain"
)

type staticSource struct {
	state domain.CMSState
	err   error
}

func (s staticSource) State(context.Context) (domain.CMSState, error) {
	return s.state, s.err
}

func TestExport_WritesDBJSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	se := NewSnapshotExporter(staticSource{state: domain.DefaultState()}, nil, ExporterConfig{Path: path})

	require.NoError(t, se.Export(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.ElementsMatch(t, []string{"products", "blogs", "enquiries", "siteConfig"}, keys(doc))

	var got domain.CMSState
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, domain.DefaultState().SiteConfig, got.SiteConfig)
	assert.Len(t, got.Products, 3)
}

func TestExport_NilCollectionsWrittenAsArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	se := NewSnapshotExporter(staticSource{}, nil, ExporterConfig{Path: path})

	require.NoError(t, se.Export(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[],"blogs":[],"enquiries":[],"siteConfig":{}}`, string(raw))
}

func TestExport_SourceErrorLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"old":true}`), 0o644))
	se := NewSnapshotExporter(staticSource{err: domain.ErrBackendUnavailable}, nil, ExporterConfig{Path: path})

	assert.ErrorIs(t, se.Export(context.Background()), domain.ErrBackendUnavailable)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"old":true}`, string(raw))
}

func TestExporter_DisabledWithoutPath(t *testing.T) {
	se := NewSnapshotExporter(staticSource{err: assert.AnError}, nil, ExporterConfig{})

	se.Start()
	assert.NoError(t, se.Export(context.Background()))
	assert.NoError(t, se.Stop(context.Background()))
}

func TestExporter_StopWritesFinalSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	se := NewSnapshotExporter(staticSource{state: domain.DefaultState()}, nil, ExporterConfig{Path: path, Interval: time.Hour})
	se.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, se.Stop(ctx))

	assert.FileExists(t, path)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
