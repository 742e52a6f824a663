package x

import (
	"fmt"
	"strings"

	"xmcp/server/pkg/xapi"
)

// =============================================================================
// Presenters — pure transformation: entity (+ optional includes) → text
// =============================================================================

// FormatUser renders a user profile as a multi-line summary. Optional
// fields contribute a line only when present; the ID line is always last.
func FormatUser(u *xapi.User) string {
	var lines []string

	switch {
	case u.Username != "" && u.Name != "":
		lines = append(lines, fmt.Sprintf("@%s — %s", u.Username, u.Name))
	case u.Username != "":
		lines = append(lines, "@"+u.Username)
	case u.Name != "":
		lines = append(lines, u.Name)
	}

	// A typed verification category beats the plain boolean when both arrive
	if u.VerifiedType != "" {
		lines = append(lines, "Verified: "+u.VerifiedType)
	} else if u.Verified {
		lines = append(lines, "Verified: yes")
	}
	if u.Description != "" {
		lines = append(lines, "Bio: "+u.Description)
	}
	if u.Location != "" {
		lines = append(lines, "Location: "+u.Location)
	}
	if u.URL != "" {
		lines = append(lines, "URL: "+u.URL)
	}
	if u.CreatedAt != "" {
		lines = append(lines, "Joined: "+u.CreatedAt)
	}
	if u.ProfileImageURL != "" {
		lines = append(lines, "Avatar: "+u.ProfileImageURL)
	}
	if m := u.PublicMetrics; m != nil {
		lines = append(lines, fmt.Sprintf(
			"Followers: %d | Following: %d | Tweets: %d | Listed: %d",
			m.Followers, m.Following, m.Tweets, m.Listed,
		))
	}
	lines = append(lines, "ID: "+u.ID)

	return strings.Join(lines, "\n")
}

// FormatTweet renders a tweet, resolving its author from the includes
// side-table when both are available.
func FormatTweet(t *xapi.Tweet, includes *xapi.Includes) string {
	var lines []string

	if t.AuthorID != "" {
		if author := includes.UserByID(t.AuthorID); author != nil {
			lines = append(lines, fmt.Sprintf("@%s (%s)", author.Username, author.Name))
		}
	}

	if t.Text != "" {
		lines = append(lines, t.Text)
	}
	if t.CreatedAt != "" {
		lines = append(lines, "Posted: "+t.CreatedAt)
	}

	if len(t.ReferencedTweets) > 0 {
		refs := make([]string, len(t.ReferencedTweets))
		for i, r := range t.ReferencedTweets {
			refs[i] = fmt.Sprintf("%s: %s", r.Type, r.ID)
		}
		lines = append(lines, "References: "+strings.Join(refs, ", "))
	}

	if m := t.PublicMetrics; m != nil {
		lines = append(lines, fmt.Sprintf(
			"Likes: %d | Retweets: %d | Replies: %d | Quotes: %d",
			m.Likes, m.Retweets, m.Replies, m.Quotes,
		))
	}

	lines = append(lines, "Tweet ID: "+t.ID)
	if t.ConversationID != "" {
		lines = append(lines, "Conversation ID: "+t.ConversationID)
	}

	return strings.Join(lines, "\n")
}

// FormatUsers renders a user collection, blank line between entries.
// Callers handle the empty collection before calling.
func FormatUsers(users []xapi.User) string {
	parts := make([]string, len(users))
	for i := range users {
		parts[i] = FormatUser(&users[i])
	}
	return strings.Join(parts, "\n\n")
}

// FormatTweets renders a tweet collection with a visible separator.
// Callers handle the empty collection before calling.
func FormatTweets(tweets []xapi.Tweet, includes *xapi.Includes) string {
	parts := make([]string, len(tweets))
	for i := range tweets {
		parts[i] = FormatTweet(&tweets[i], includes)
	}
	return strings.Join(parts, "\n\n---\n\n")
}
