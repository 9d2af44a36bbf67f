package service

import (
	"testing"

	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"

	"github.com/stretchr/testify/assert"
)

func TestBuildLobbyFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []matchmaking.StringFilter
	}{
		{
			name:     "empty criteria",
			criteria: domain.FilterCriteria{},
			want:     nil,
		},
		{
			name:     "no password only",
			criteria: domain.FilterCriteria{RequireNoPassword: true},
			want: []matchmaking.StringFilter{
				{Key: "password", Value: "0", Kind: matchmaking.Include},
			},
		},
		{
			name:     "name pattern",
			criteria: domain.FilterCriteria{NamePattern: "Kaiserreich"},
			want: []matchmaking.StringFilter{
				{Key: "name", Value: "Kaiserreich", Kind: matchmaking.Include},
			},
		},
		{
			name: "all criteria keep order",
			criteria: domain.FilterCriteria{
				NamePattern:        "MP",
				RequireNoPassword:  true,
				RequireBaseVersion: true,
			},
			want: []matchmaking.StringFilter{
				{Key: "name", Value: "MP", Kind: matchmaking.Include},
				{Key: "password", Value: "0", Kind: matchmaking.Include},
				{Key: "version", Value: "0143", Kind: matchmaking.Include},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildLobbyFilter(tt.criteria)
			assert.Equal(t, tt.want, got.String)
		})
	}
}

func TestBuildLobbyFilter_NoPasswordWithName(t *testing.T) {
	got := BuildLobbyFilter(domain.FilterCriteria{NamePattern: "x", RequireNoPassword: true})

	var password []matchmaking.StringFilter
	for _, f := range got.String {
		if f.Key == "password" {
			password = append(password, f)
		}
	}
	assert.Equal(t, []matchmaking.StringFilter{{Key: "password", Value: "0", Kind: matchmaking.Include}}, password)
}
