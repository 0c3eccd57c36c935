package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnquiryDraft_Validate(t *testing.T) {
	valid := EnquiryDraft{Type: EnquiryGeneral, Name: "A", Phone: "1", Message: "x"}

	tests := []struct {
		name    string
		mutate  func(d *EnquiryDraft)
		wantErr bool
	}{
		{"valid", func(d *EnquiryDraft) {}, false},
		{"email optional", func(d *EnquiryDraft) { d.Email = "" }, false},
		{"missing name", func(d *EnquiryDraft) { d.Name = "  " }, true},
		{"missing phone", func(d *EnquiryDraft) { d.Phone = "" }, true},
		{"missing message", func(d *EnquiryDraft) { d.Message = "" }, true},
		{"unknown type", func(d *EnquiryDraft) { d.Type = "Spam" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			err := d.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsDomainError(err, ErrCodeInvalid))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEnquiryDraft_AcceptAssignsIdentity(t *testing.T) {
	now := time.Now()
	d := EnquiryDraft{Type: EnquiryProduct, Name: "A", Phone: "1", Message: "x", ProductName: "Turmeric"}

	first := d.Accept(now)
	second := d.Accept(now)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StatusNew, first.Status)
	ts, ok := first.ParseTime()
	require.True(t, ok)
	assert.True(t, ts.Equal(now.Truncate(time.Millisecond)))
	assert.Equal(t, "Turmeric", first.ProductName)
}

func TestEnquiryStatus_Valid(t *testing.T) {
	assert.True(t, StatusContacted.Valid())
	assert.False(t, EnquiryStatus("Closed").Valid())
}

func TestUnavailable_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("post enquiry: %w", Unavailable(errors.New("dial tcp: refused")))

	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.NotErrorIs(t, err, ErrDocumentNotFound)
	assert.Contains(t, err.Error(), "refused")
	assert.Nil(t, Unavailable(nil))
}

func TestEnsureID_ResolvesPlaceholders(t *testing.T) {
	p := Product{ID: PlaceholderID}
	p.EnsureID()
	assert.NotEqual(t, PlaceholderID, p.ID)

	kept := Product{ID: "42"}
	kept.EnsureID()
	assert.Equal(t, "42", kept.ID)

	b := BlogPost{}
	b.EnsureID()
	assert.NotEmpty(t, b.ID)
	assert.NotEmpty(t, b.Date)

	dated := BlogPost{Date: "10 May 2024"}
	dated.EnsureID()
	assert.Equal(t, "10 May 2024", dated.Date)
}
