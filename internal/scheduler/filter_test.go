package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		in      string
		want    KeyValue
		wantErr bool
	}{
		{in: "key:value", want: KeyValue{Key: "key", Value: "value"}},
		{in: " genre:jazz ", want: KeyValue{Key: "genre", Value: "jazz"}},
		{in: "novalue", wantErr: true},
		{in: "a:b:c", wantErr: true},
		{in: ":b", wantErr: true},
		{in: "a:", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Key+":"+tt.want.Value, got.String())
		})
	}
}

func TestParseMasteryScore(t *testing.T) {
	for v := -1; v <= 7; v++ {
		s, err := ParseMasteryScore(v)
		if v >= 1 && v <= 5 {
			assert.NoError(t, err, "score %d", v)
			assert.Equal(t, MasteryScore(v), s)
			assert.True(t, s.Valid())
		} else {
			assert.Error(t, err, "score %d", v)
		}
	}
}

func TestFilterString(t *testing.T) {
	var none *Filter
	assert.Equal(t, "none", none.String())

	f := MetadataFilter("", []KeyValue{{Key: "k", Value: "v"}}, []KeyValue{{Key: "a", Value: "b"}})
	assert.Equal(t, OpAll, f.Op)
	assert.Equal(t, "metadata (all): course k:v, lesson a:b", f.String())

	assert.Equal(t, "courses: c1, c2", (&Filter{Kind: FilterCourses, UnitIDs: []string{"c1", "c2"}}).String())
	assert.Equal(t, "review list", (&Filter{Kind: FilterReviewList}).String())
	assert.Equal(t, "saved filter easy", SavedFilterRef("easy").String())
}
