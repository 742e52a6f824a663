package x

import (
	"strings"

	"xmcp/server/internal/modules"
)

// UserFields is the closed set of selectable user attributes.
// Schema validation rejects anything outside it; this is the only
// defense against malformed outbound requests.
var UserFields = []string{
	"created_at",
	"description",
	"entities",
	"id",
	"location",
	"most_recent_tweet_id",
	"name",
	"pinned_tweet_id",
	"profile_image_url",
	"protected",
	"public_metrics",
	"url",
	"username",
	"verified",
	"verified_type",
	"withheld",
}

// DefaultUserFields is the ordered subset requested when the caller
// selects nothing.
var DefaultUserFields = []string{
	"created_at",
	"description",
	"id",
	"location",
	"name",
	"profile_image_url",
	"public_metrics",
	"url",
	"username",
	"verified",
	"verified_type",
}

// TweetFields is the closed set of selectable tweet attributes.
var TweetFields = []string{
	"attachments",
	"author_id",
	"context_annotations",
	"conversation_id",
	"created_at",
	"edit_controls",
	"entities",
	"geo",
	"id",
	"in_reply_to_user_id",
	"lang",
	"possibly_sensitive",
	"public_metrics",
	"referenced_tweets",
	"reply_settings",
	"source",
	"text",
	"withheld",
}

// DefaultTweetFields is the ordered subset requested when the caller
// selects nothing.
var DefaultTweetFields = []string{
	"created_at",
	"text",
	"author_id",
	"public_metrics",
	"conversation_id",
	"referenced_tweets",
	"entities",
}

// authorUserFields is the minimal user field set requested alongside the
// author_id expansion so tweet authors can be formatted.
const authorUserFields = "name,username,verified,verified_type"

// selectedFields returns the comma-joined field selection from params,
// or the comma-joined defaults when the caller supplied none.
func selectedFields(params map[string]any, key string, defaults []string) string {
	if arr, ok := params[key].([]interface{}); ok {
		if fields := modules.ToStringSlice(arr); len(fields) > 0 {
			return strings.Join(fields, ",")
		}
	}
	return strings.Join(defaults, ",")
}
