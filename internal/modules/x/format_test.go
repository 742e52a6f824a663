package x

import (
	"strings"
	"testing"

	"xmcp/server/pkg/xapi"
)

func TestFormatUser(t *testing.T) {
	tests := []struct {
		name string
		user xapi.User
		want string
	}{
		{
			name: "minimal profile",
			user: xapi.User{ID: "1", Username: "alice", Name: "Alice"},
			want: "@alice — Alice\nID: 1",
		},
		{
			name: "username only header",
			user: xapi.User{ID: "2", Username: "bob"},
			want: "@bob\nID: 2",
		},
		{
			name: "name only header",
			user: xapi.User{ID: "3", Name: "Carol"},
			want: "Carol\nID: 3",
		},
		{
			name: "id only",
			user: xapi.User{ID: "4"},
			want: "ID: 4",
		},
		{
			name: "verified type wins over boolean",
			user: xapi.User{ID: "5", Username: "corp", Verified: true, VerifiedType: "business"},
			want: "@corp\nVerified: business\nID: 5",
		},
		{
			name: "plain verified boolean",
			user: xapi.User{ID: "6", Username: "dave", Verified: true},
			want: "@dave\nVerified: yes\nID: 6",
		},
		{
			name: "full profile",
			user: xapi.User{
				ID:              "7",
				Username:        "erin",
				Name:            "Erin",
				Description:     "writes code",
				Location:        "Tokyo",
				URL:             "https://example.com",
				CreatedAt:       "2020-01-02T03:04:05.000Z",
				ProfileImageURL: "https://example.com/erin.jpg",
				PublicMetrics:   &xapi.UserMetrics{Followers: 10, Following: 20, Tweets: 30, Listed: 4},
			},
			want: strings.Join([]string{
				"@erin — Erin",
				"Bio: writes code",
				"Location: Tokyo",
				"URL: https://example.com",
				"Joined: 2020-01-02T03:04:05.000Z",
				"Avatar: https://example.com/erin.jpg",
				"Followers: 10 | Following: 20 | Tweets: 30 | Listed: 4",
				"ID: 7",
			}, "\n"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUser(&tt.user); got != tt.want {
				t.Errorf("FormatUser() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTweet(t *testing.T) {
	includes := &xapi.Includes{Users: []xapi.User{
		{ID: "100", Username: "alice", Name: "Alice"},
	}}

	tests := []struct {
		name     string
		tweet    xapi.Tweet
		includes *xapi.Includes
		want     string
	}{
		{
			name:  "text and id only",
			tweet: xapi.Tweet{ID: "1", Text: "hello"},
			want:  "hello\nTweet ID: 1",
		},
		{
			name:     "author resolved from includes",
			tweet:    xapi.Tweet{ID: "2", Text: "hi", AuthorID: "100"},
			includes: includes,
			want:     "@alice (Alice)\nhi\nTweet ID: 2",
		},
		{
			name:     "author missing from includes",
			tweet:    xapi.Tweet{ID: "3", Text: "hi", AuthorID: "999"},
			includes: includes,
			want:     "hi\nTweet ID: 3",
		},
		{
			name:  "nil includes tolerated",
			tweet: xapi.Tweet{ID: "4", Text: "hi", AuthorID: "100"},
			want:  "hi\nTweet ID: 4",
		},
		{
			name: "full tweet",
			tweet: xapi.Tweet{
				ID:             "5",
				Text:           "big news",
				AuthorID:       "100",
				CreatedAt:      "2024-05-06T07:08:09.000Z",
				ConversationID: "5",
				ReferencedTweets: []xapi.ReferencedTweet{
					{Type: "replied_to", ID: "4"},
					{Type: "quoted", ID: "3"},
				},
				PublicMetrics: &xapi.TweetMetrics{Likes: 1, Retweets: 2, Replies: 3, Quotes: 4},
			},
			includes: includes,
			want: strings.Join([]string{
				"@alice (Alice)",
				"big news",
				"Posted: 2024-05-06T07:08:09.000Z",
				"References: replied_to: 4, quoted: 3",
				"Likes: 1 | Retweets: 2 | Replies: 3 | Quotes: 4",
				"Tweet ID: 5",
				"Conversation ID: 5",
			}, "\n"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTweet(&tt.tweet, tt.includes); got != tt.want {
				t.Errorf("FormatTweet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatUsers(t *testing.T) {
	got := FormatUsers([]xapi.User{
		{ID: "1", Username: "a"},
		{ID: "2", Username: "b"},
	})
	want := "@a\nID: 1\n\n@b\nID: 2"
	if got != want {
		t.Errorf("FormatUsers() = %q, want %q", got, want)
	}
}

func TestFormatTweets(t *testing.T) {
	got := FormatTweets([]xapi.Tweet{
		{ID: "1", Text: "one"},
		{ID: "2", Text: "two"},
	}, nil)
	want := "one\nTweet ID: 1\n\n---\n\ntwo\nTweet ID: 2"
	if got != want {
		t.Errorf("FormatTweets() = %q, want %q", got, want)
	}
}

func TestSelectedFields(t *testing.T) {
	defaults := []string{"id", "name"}
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"missing key", map[string]any{}, "id,name"},
		{"empty array", map[string]any{"fields": []interface{}{}}, "id,name"},
		{"explicit selection", map[string]any{"fields": []interface{}{"username", "verified"}}, "username,verified"},
		{"non-strings skipped", map[string]any{"fields": []interface{}{"username", 7.0}}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectedFields(tt.params, "fields", defaults); got != tt.want {
				t.Errorf("selectedFields() = %q, want %q", got, tt.want)
			}
		})
	}
}
