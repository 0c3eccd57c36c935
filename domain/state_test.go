package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNonEmpty_EmptyRemoteKeepsDefaults(t *testing.T) {
	defaults := DefaultState()

	merged := defaults.MergeNonEmpty(CMSState{Products: []Product{}, SiteConfig: SiteConfig{}})

	assert.Equal(t, defaults.Products, merged.Products)
	assert.Equal(t, defaults.Blogs, merged.Blogs)
	assert.Equal(t, defaults.SiteConfig, merged.SiteConfig)
}

func TestMergeNonEmpty_RemoteProductsReplaceExactly(t *testing.T) {
	remote := []Product{{ID: "p-9", Name: "Star Anise", Type: SpiceWhole, Sizes: []string{"50g", "50g"}}}

	merged := DefaultState().MergeNonEmpty(CMSState{Products: remote})

	assert.Equal(t, remote, merged.Products)
	assert.Equal(t, DefaultState().SiteConfig, merged.SiteConfig)
}

func TestMergeNonEmpty_SiteConfigNeedsBrand(t *testing.T) {
	defaults := DefaultState()

	merged := defaults.MergeNonEmpty(CMSState{SiteConfig: SiteConfig{Tagline: "no brand"}})
	assert.Equal(t, defaults.SiteConfig, merged.SiteConfig)

	merged = defaults.MergeNonEmpty(CMSState{SiteConfig: SiteConfig{BrandName: "Other"}})
	assert.Equal(t, "Other", merged.SiteConfig.BrandName)
}

func TestClone_DoesNotShareSizes(t *testing.T) {
	s := DefaultState()
	c := s.Clone()
	c.Products[0].Sizes[0] = "changed"

	assert.NotEqual(t, "changed", s.Products[0].Sizes[0])
}

func TestEmptyState_EncodesConventionalShape(t *testing.T) {
	out, err := json.Marshal(EmptyState())
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[],"blogs":[],"enquiries":[],"siteConfig":{}}`, string(out))
}

func TestNormalize_FillsNilCollections(t *testing.T) {
	var s CMSState
	s.Normalize()

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[],"blogs":[],"enquiries":[],"siteConfig":{}}`, string(out))
}

func TestSiteConfig_RoundTripsWhenSet(t *testing.T) {
	cfg := DefaultState().SiteConfig
	out, err := json.Marshal(cfg)
	require.NoError(t, err)

	var back SiteConfig
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, cfg, back)
	assert.Contains(t, string(out), `"brandName":"Deccan Tadka"`)
}

func TestFindEnquiry(t *testing.T) {
	s := CMSState{Enquiries: []Enquiry{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, s.FindEnquiry("b"))
	assert.Equal(t, -1, s.FindEnquiry("z"))
}
