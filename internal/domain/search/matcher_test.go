package search

import (
	"reflect"
	"testing"
)

func TestKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		exp   Expansion
		want  []string
	}{
		{
			name:  "category plus keywords lower-cased and deduplicated",
			query: "my sink is leaking",
			exp: Expansion{
				PrimaryCategory: "Plumbing",
				Keywords:        []string{"plumbing", "Pipe Repair", "leak"},
			},
			want: []string{"plumbing", "pipe repair", "leak"},
		},
		{
			name:  "empty expansion falls back to raw query",
			query: "Santexnik",
			exp:   Expansion{},
			want:  []string{"santexnik"},
		},
		{
			name:  "blank entries are skipped",
			query: "help",
			exp:   Expansion{PrimaryCategory: "  ", Keywords: []string{"", "cleaning"}},
			want:  []string{"cleaning"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Keywords(tc.query, tc.exp)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Keywords() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		profession string
		skills     []string
		pname      string
		bio        string
		keywords   []string
		want       bool
	}{
		{
			name:       "keyword matches profession case-insensitively",
			profession: "Plumbing",
			keywords:   []string{"plumbing"},
			want:       true,
		},
		{
			name:     "keyword matches a skill",
			skills:   []string{"pipe repair", "heating"},
			keywords: []string{"pipe"},
			want:     true,
		},
		{
			name:     "keyword matches bio substring",
			bio:      "I fix leaking taps and kitchen sinks",
			keywords: []string{"leak"},
			want:     true,
		},
		{
			name:     "keyword matches name",
			pname:    "Elçin the Electrician",
			keywords: []string{"electric"},
			want:     true,
		},
		{
			name:       "no field matches",
			profession: "gardening",
			skills:     []string{"lawn"},
			bio:        "Flower beds and hedges",
			keywords:   []string{"plumbing", "pipe"},
			want:       false,
		},
		{
			name:     "empty keyword set never matches",
			bio:      "anything",
			keywords: nil,
			want:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Matches(tc.profession, tc.skills, tc.pname, tc.bio, tc.keywords)
			if got != tc.want {
				t.Fatalf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}
