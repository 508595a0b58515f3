package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSentiment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Positive", SentimentPositive},
		{"very positive", SentimentPositive},
		{"Negative", SentimentNegative},
		{"Neutral", SentimentNeutral},
		{"unknown label", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapSentiment(tc.in), tc.in)
	}
}

func TestEffectiveOfficeHours(t *testing.T) {
	unset := &Settings{}
	start, end := unset.EffectiveOfficeHours(9, 18)
	assert.Equal(t, 9, start)
	assert.Equal(t, 18, end)

	configured := &Settings{OfficeHoursStart: 10, OfficeHoursEnd: 14}
	start, end = configured.EffectiveOfficeHours(9, 18)
	assert.Equal(t, 10, start)
	assert.Equal(t, 14, end)

	inverted := &Settings{OfficeHoursStart: 17, OfficeHoursEnd: 9}
	start, end = inverted.EffectiveOfficeHours(9, 18)
	assert.Equal(t, 9, start)
	assert.Equal(t, 18, end)
}
