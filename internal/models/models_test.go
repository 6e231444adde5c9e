package models

import (
	"errors"
	"testing"
)

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		input   string
		want    MediaType
		wantErr bool
	}{
		{"movie", MediaTypeMovie, false},
		{"TV", MediaTypeTV, false},
		{" anime ", MediaTypeAnime, false},
		{"podcast", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMediaType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMediaType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMediaType) {
				t.Errorf("ParseMediaType(%q) error = %v, want ErrInvalidMediaType", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMediaType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDocID(t *testing.T) {
	if got := DocID(MediaTypeMovie, 550); got != "movie_550" {
		t.Errorf("DocID() = %s, want movie_550", got)
	}
	if got := DocID(MediaTypeAnime, 21); got != "anime_21" {
		t.Errorf("DocID() = %s, want anime_21", got)
	}
}

func TestNewHistoryEntry(t *testing.T) {
	entry := NewHistoryEntry("u1", MediaTypeTV, 1399, "Game of Thrones", "/got.jpg", 0, -1)

	if entry.DocID != "tv_1399" {
		t.Errorf("DocID = %s, want tv_1399", entry.DocID)
	}
	if entry.Season != 1 || entry.Episode != 1 {
		t.Errorf("Season/Episode = %d/%d, want 1/1", entry.Season, entry.Episode)
	}
	if entry.UniqueKey() != "continue_tv_1399" {
		t.Errorf("UniqueKey() = %s, want continue_tv_1399", entry.UniqueKey())
	}
	if entry.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewUser_Placeholders(t *testing.T) {
	user := NewUser("u1", "", "", nil)
	if user.DisplayName != UnknownDisplayName || user.Email != UnknownEmail {
		t.Errorf("NewUser() = %+v, want placeholder name and email", user)
	}
}

func TestDefaultServers(t *testing.T) {
	servers := DefaultServers([]string{"https://vidsrc.cc/embed", "https://vidsrc.to/embed", "https://vidsrc.me/embed"})
	if len(servers) != 3 {
		t.Fatalf("len(DefaultServers()) = %d, want 3", len(servers))
	}
	if servers[1].Name != "Server 2" {
		t.Errorf("servers[1].Name = %s, want Server 2", servers[1].Name)
	}
	again := DefaultServers([]string{"https://vidsrc.cc/embed"})
	if again[0].ID != servers[0].ID {
		t.Errorf("DefaultServers() ids differ across calls: %s vs %s", again[0].ID, servers[0].ID)
	}
	for i, s := range servers {
		if s.OrderNumber != i+1 {
			t.Errorf("servers[%d].OrderNumber = %d, want %d", i, s.OrderNumber, i+1)
		}
	}
	if servers[0].URL != "https://vidsrc.cc/embed" {
		t.Errorf("servers[0].URL = %s", servers[0].URL)
	}
}

func TestCard_ResolvedMediaType(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want MediaType
	}{
		{"explicit", Card{MediaType: MediaTypeAnime, Title: "x"}, MediaTypeAnime},
		{"title means movie", Card{Title: "Heat"}, MediaTypeMovie},
		{"name means tv", Card{Name: "Lost"}, MediaTypeTV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.ResolvedMediaType(); got != tt.want {
				t.Errorf("ResolvedMediaType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewPage_HasMore(t *testing.T) {
	if p := NewPage(nil, 1, 3); !p.HasMore || p.Results == nil {
		t.Errorf("NewPage(1,3) = %+v, want HasMore and non-nil results", p)
	}
	if p := NewPage(nil, 3, 3); p.HasMore {
		t.Error("NewPage(3,3).HasMore = true, want false")
	}
}

func TestRecommendationRoundTrip(t *testing.T) {
	rec := RecommendationFromCard(&Card{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17"})
	if rec.DocID != "tv_1399" || rec.ReleaseDate != "2011-04-17" {
		t.Fatalf("RecommendationFromCard() = %+v", rec)
	}
	card := rec.Card()
	if card.Name != "Game of Thrones" || card.Title != "" || card.UniqueKey != "tv_1399" {
		t.Errorf("Card() = %+v", card)
	}
}
