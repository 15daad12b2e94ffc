package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name        string
		dataClasses []string
		want        Severity
	}{
		{"passwords are high", []string{"Passwords"}, SeverityHigh},
		{"credit cards are high", []string{"Credit cards"}, SeverityHigh},
		{"high wins over medium", []string{"Email addresses", "Passwords"}, SeverityHigh},
		{"emails are medium", []string{"Email addresses"}, SeverityMedium},
		{"usernames are medium", []string{"Usernames"}, SeverityMedium},
		{"unlisted classes are low", []string{"Avatar"}, SeverityLow},
		{"empty is low", nil, SeverityLow},
		{"matching is case-insensitive", []string{"PASSWORDS"}, SeverityHigh},
		{"substring matches", []string{"Bank account numbers"}, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySeverity(tt.dataClasses))
		})
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Data was exposed.", StripHTML(`<a href="x">Data</a> was <em>exposed</em>.`))
	assert.Equal(t, "plain text", StripHTML("plain text"))
	assert.Equal(t, "", StripHTML("<p></p>"))
}
