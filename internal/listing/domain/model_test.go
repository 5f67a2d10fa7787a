package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() SubmissionInput {
	return SubmissionInput{
		Type:         TypeSale,
		Name:         "Bright family house",
		Bedrooms:     3,
		Bathrooms:    2,
		RegularPrice: 250_000,
		Address:      "12 Elm Street, Springfield",
	}
}

func TestSubmissionInputValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*SubmissionInput)
		imageCount int
		wantField  string
	}{
		{name: "valid", mutate: func(*SubmissionInput) {}, imageCount: 3},
		{name: "unknown type", mutate: func(in *SubmissionInput) { in.Type = "lease" }, imageCount: 3, wantField: "type"},
		{name: "name too short", mutate: func(in *SubmissionInput) { in.Name = "Tiny flat" }, imageCount: 3, wantField: "name"},
		{name: "name too long", mutate: func(in *SubmissionInput) { in.Name = strings.Repeat("a", MaxNameLength+1) }, imageCount: 3, wantField: "name"},
		{name: "name at bounds", mutate: func(in *SubmissionInput) { in.Name = strings.Repeat("a", MinNameLength) }, imageCount: 3},
		{name: "zero bedrooms", mutate: func(in *SubmissionInput) { in.Bedrooms = 0 }, imageCount: 3, wantField: "bedrooms"},
		{name: "too many bathrooms", mutate: func(in *SubmissionInput) { in.Bathrooms = MaxRooms + 1 }, imageCount: 3, wantField: "bathrooms"},
		{name: "price below floor", mutate: func(in *SubmissionInput) { in.RegularPrice = MinPrice - 1 }, imageCount: 3, wantField: "regularPrice"},
		{name: "price above ceiling", mutate: func(in *SubmissionInput) { in.RegularPrice = MaxPrice + 1 }, imageCount: 3, wantField: "regularPrice"},
		{name: "discount not below regular", mutate: func(in *SubmissionInput) {
			in.Offer = true
			in.DiscountedPrice = in.RegularPrice
		}, imageCount: 3, wantField: "discountedPrice"},
		{name: "discount ignored without offer", mutate: func(in *SubmissionInput) {
			in.DiscountedPrice = in.RegularPrice * 2
		}, imageCount: 3},
		{name: "empty address", mutate: func(in *SubmissionInput) { in.Address = "" }, imageCount: 3, wantField: "address"},
		{name: "no images", mutate: func(*SubmissionInput) {}, imageCount: 0, wantField: "images"},
		{name: "too many images", mutate: func(*SubmissionInput) {}, imageCount: MaxImages + 1, wantField: "images"},
		{name: "max images", mutate: func(*SubmissionInput) {}, imageCount: MaxImages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission()
			tt.mutate(&in)
			err := in.Validate(tt.imageCount)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestFilterFingerprint(t *testing.T) {
	var none *Filter
	assert.Equal(t, "all", none.Fingerprint())
	assert.Equal(t, "offer=true", FilterByOffer().Fingerprint())
	assert.Equal(t, "type=rent", FilterByType(TypeRent).Fingerprint())
	assert.Equal(t, "ownerRef=user-7", FilterByOwner("user-7").Fingerprint())
}
