// Package x implements the X (Twitter) API module: ten read-only query
// tools sharing one request/response pipeline. Each tool is a declarative
// operation record; runOperation is the only execution path.
package x

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"xmcp/server/internal/modules"
	"xmcp/server/pkg/xapi"
)

const moduleDescription = "X (Twitter) API - look up users and tweets, search recent tweets, list followers, likes, and retweets"

// Module implements the modules.Module interface for the X API.
type Module struct {
	client *xapi.Client
	ops    map[string]*operation
	tools  []modules.Tool
}

// New creates the X module around a configured API client.
func New(client *xapi.Client) *Module {
	m := &Module{
		client: client,
		ops:    make(map[string]*operation, len(operations)),
	}
	for _, op := range operations {
		m.ops[op.tool.Name] = op
		m.tools = append(m.tools, op.tool)
	}
	return m
}

func (m *Module) Name() string { return "x" }

func (m *Module) Description() string { return moduleDescription }

func (m *Module) Tools() []modules.Tool { return m.tools }

// ExecuteTool runs a tool by name. Params arrive already validated
// against the tool's InputSchema.
func (m *Module) ExecuteTool(ctx context.Context, name string, params map[string]any) (*modules.ToolCallResult, error) {
	op, ok := m.ops[name]
	if !ok {
		return nil, errors.Errorf("unknown tool: %s", name)
	}
	return m.runOperation(ctx, op, params), nil
}

// =============================================================================
// Operation records
// =============================================================================

type resultKind int

const (
	singleUser resultKind = iota
	userList
	singleTweet
	tweetList
)

// operation declaratively binds a tool to its endpoint, result shape,
// and empty-result behavior. Records are package-level and immutable.
type operation struct {
	tool modules.Tool

	// request builds the endpoint path and query from validated params.
	request func(params map[string]any) (string, url.Values)

	kind resultKind

	// emptyText is returned for a zero-entity collection. Most list
	// operations report it as an informational success; batch lookup
	// treats it as a failure.
	emptyText    string
	emptyIsError bool

	// notFound renders the error message for a single-entity response
	// with no data.
	notFound func(params map[string]any) string

	// paginated echoes meta.next_token back into the result.
	paginated bool
}

// runOperation is the shared pipeline: build request, call the gateway,
// decode the primary data, format, assemble the envelope. Every failure
// becomes an error payload; nothing escapes as a Go error.
func (m *Module) runOperation(ctx context.Context, op *operation, params map[string]any) *modules.ToolCallResult {
	path, query := op.request(params)

	env, err := m.client.Get(ctx, path, query)
	if err != nil {
		return errorResult(err.Error())
	}

	switch op.kind {
	case singleUser:
		if !env.HasData() {
			return errorResult(op.notFound(params))
		}
		var user xapi.User
		if err := json.Unmarshal(env.Data, &user); err != nil {
			return errorResult("Failed to decode user data: " + err.Error())
		}
		return successResult(FormatUser(&user), env.Raw, "")

	case singleTweet:
		if !env.HasData() {
			return errorResult(op.notFound(params))
		}
		var tweet xapi.Tweet
		if err := json.Unmarshal(env.Data, &tweet); err != nil {
			return errorResult("Failed to decode tweet data: " + err.Error())
		}
		return successResult(FormatTweet(&tweet, env.Includes), env.Raw, "")

	case userList:
		var users []xapi.User
		if env.HasData() {
			if err := json.Unmarshal(env.Data, &users); err != nil {
				return errorResult("Failed to decode user data: " + err.Error())
			}
		}
		if len(users) == 0 {
			if op.emptyIsError {
				return errorResult(op.emptyText)
			}
			return successResult(op.emptyText, env.Raw, "")
		}
		return successResult(FormatUsers(users), env.Raw, m.nextToken(op, env))

	case tweetList:
		var tweets []xapi.Tweet
		if env.HasData() {
			if err := json.Unmarshal(env.Data, &tweets); err != nil {
				return errorResult("Failed to decode tweet data: " + err.Error())
			}
		}
		if len(tweets) == 0 {
			if op.emptyIsError {
				return errorResult(op.emptyText)
			}
			return successResult(op.emptyText, env.Raw, "")
		}
		return successResult(FormatTweets(tweets, env.Includes), env.Raw, m.nextToken(op, env))
	}

	return errorResult(fmt.Sprintf("unsupported result kind for %s", op.tool.Name))
}

func (m *Module) nextToken(op *operation, env *xapi.Envelope) string {
	if !op.paginated {
		return ""
	}
	return env.NextToken()
}

// =============================================================================
// Query builders
// =============================================================================

func userListQuery(params map[string]any, defaultMax int) url.Values {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(modules.OptInt(params, "max_results", defaultMax)))
	q.Set("user.fields", selectedFields(params, "user_fields", DefaultUserFields))
	return q
}

func tweetQuery(params map[string]any) url.Values {
	q := url.Values{}
	q.Set("tweet.fields", selectedFields(params, "tweet_fields", DefaultTweetFields))
	q.Set("expansions", "author_id")
	q.Set("user.fields", authorUserFields)
	return q
}

func tweetListQuery(params map[string]any, defaultMax int) url.Values {
	q := tweetQuery(params)
	q.Set("max_results", strconv.Itoa(modules.OptInt(params, "max_results", defaultMax)))
	return q
}

func withPagination(q url.Values, params map[string]any) url.Values {
	if token, ok := params["pagination_token"].(string); ok && token != "" {
		q.Set("pagination_token", token)
	}
	return q
}

// =============================================================================
// Schema builders
// =============================================================================

func userFieldsProp() modules.Property {
	return modules.Property{
		Type:        "array",
		Description: "Optional list of user fields to return. Defaults to a useful subset.",
		Items:       &modules.Property{Type: "string", Enum: UserFields},
	}
}

func tweetFieldsProp() modules.Property {
	return modules.Property{
		Type:        "array",
		Description: "Optional list of tweet fields to return. Defaults to a useful subset.",
		Items:       &modules.Property{Type: "string", Enum: TweetFields},
	}
}

func maxResultsProp(min, max, def int) modules.Property {
	return modules.Property{
		Type:        "integer",
		Description: fmt.Sprintf("Number of results to return (%d-%d, default %d)", min, max, def),
		Minimum:     modules.FloatPtr(float64(min)),
		Maximum:     modules.FloatPtr(float64(max)),
	}
}

func paginationProp() modules.Property {
	return modules.Property{
		Type:        "string",
		Description: "Token for the next page of results (from a previous response's next_token).",
	}
}

func idProp(desc string) modules.Property {
	return modules.Property{Type: "string", Description: desc, MinLength: modules.IntPtr(1)}
}

// =============================================================================
// Operation definitions
// =============================================================================

var operations = []*operation{
	{
		tool: modules.Tool{
			Name:        "lookup_user",
			Description: "Look up an X (Twitter) user by their username. Returns profile information including name, bio, metrics, and more.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"username": {
						Type:        "string",
						Description: "The X username to look up (without the @ symbol)",
						MinLength:   modules.IntPtr(1),
						MaxLength:   modules.IntPtr(15),
						Pattern:     "^[a-zA-Z0-9_]+$",
					},
					"fields": userFieldsProp(),
				},
				Required: []string{"username"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			username, _ := p["username"].(string)
			q := url.Values{}
			q.Set("user.fields", selectedFields(p, "fields", DefaultUserFields))
			return xapi.Path("users", "by", "username", username), q
		},
		kind: singleUser,
		notFound: func(p map[string]any) string {
			return fmt.Sprintf("User @%v not found.", p["username"])
		},
	},
	{
		tool: modules.Tool{
			Name:        "get_tweet",
			Description: "Get a single tweet by its ID. Returns tweet text, author, metrics, and metadata.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"tweet_id":     idProp("The numeric ID of the tweet to look up"),
					"tweet_fields": tweetFieldsProp(),
				},
				Required: []string{"tweet_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["tweet_id"].(string)
			return xapi.Path("tweets", id), tweetQuery(p)
		},
		kind: singleTweet,
		notFound: func(p map[string]any) string {
			return fmt.Sprintf("Tweet %v not found.", p["tweet_id"])
		},
	},
	{
		tool: modules.Tool{
			Name:        "get_tweets",
			Description: "Get multiple tweets by their IDs (up to 100). Returns tweet text, authors, metrics, and metadata.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"tweet_ids": {
						Type:        "array",
						Description: "Array of tweet IDs to look up (max 100)",
						MinItems:    modules.IntPtr(1),
						MaxItems:    modules.IntPtr(100),
						Items:       &modules.Property{Type: "string", MinLength: modules.IntPtr(1)},
					},
					"tweet_fields": tweetFieldsProp(),
				},
				Required: []string{"tweet_ids"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			ids, _ := p["tweet_ids"].([]interface{})
			q := tweetQuery(p)
			q.Set("ids", strings.Join(modules.ToStringSlice(ids), ","))
			return "tweets", q
		},
		kind:         tweetList,
		emptyText:    "No tweets found for the given IDs.",
		emptyIsError: true,
	},
	{
		tool: modules.Tool{
			Name:        "search_tweets",
			Description: "Search recent tweets (last 7 days) using the X search query syntax. Supports operators like from:, to:, is:retweet, has:media, lang:, etc.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"query": {
						Type:        "string",
						Description: "Search query (max 512 chars). Supports X search operators.",
						MinLength:   modules.IntPtr(1),
						MaxLength:   modules.IntPtr(512),
					},
					"max_results":  maxResultsProp(10, 100, 10),
					"tweet_fields": tweetFieldsProp(),
				},
				Required: []string{"query"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			q := tweetListQuery(p, 10)
			query, _ := p["query"].(string)
			q.Set("query", query)
			return "tweets/search/recent", q
		},
		kind:      tweetList,
		emptyText: "No tweets found matching the query.",
	},
	{
		tool: modules.Tool{
			Name:        "get_user_tweets",
			Description: "Get recent tweets by a user. Requires the user's numeric ID - use lookup_user first to get the ID from a username.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"user_id":          idProp("The numeric user ID. Use lookup_user to get this from a username."),
					"max_results":      maxResultsProp(5, 100, 10),
					"tweet_fields":     tweetFieldsProp(),
					"pagination_token": paginationProp(),
				},
				Required: []string{"user_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["user_id"].(string)
			return xapi.Path("users", id, "tweets"), withPagination(tweetListQuery(p, 10), p)
		},
		kind:      tweetList,
		emptyText: "No tweets found for this user.",
		paginated: true,
	},
	{
		tool: modules.Tool{
			Name:        "get_followers",
			Description: "Get a list of users who follow the specified user. Requires the user's numeric ID - use lookup_user first to get the ID from a username.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"user_id":          idProp("The numeric user ID. Use lookup_user to get this from a username."),
					"max_results":      maxResultsProp(1, 1000, 100),
					"user_fields":      userFieldsProp(),
					"pagination_token": paginationProp(),
				},
				Required: []string{"user_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["user_id"].(string)
			return xapi.Path("users", id, "followers"), withPagination(userListQuery(p, 100), p)
		},
		kind:      userList,
		emptyText: "No followers found.",
		paginated: true,
	},
	{
		tool: modules.Tool{
			Name:        "get_following",
			Description: "Get a list of users the specified user follows. Requires the user's numeric ID - use lookup_user first to get the ID from a username.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"user_id":          idProp("The numeric user ID. Use lookup_user to get this from a username."),
					"max_results":      maxResultsProp(1, 1000, 100),
					"user_fields":      userFieldsProp(),
					"pagination_token": paginationProp(),
				},
				Required: []string{"user_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["user_id"].(string)
			return xapi.Path("users", id, "following"), withPagination(userListQuery(p, 100), p)
		},
		kind:      userList,
		emptyText: "No following found.",
		paginated: true,
	},
	{
		tool: modules.Tool{
			Name:        "get_liking_users",
			Description: "Get a list of users who liked a specific tweet.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"tweet_id":         idProp("The numeric ID of the tweet"),
					"max_results":      maxResultsProp(1, 100, 100),
					"user_fields":      userFieldsProp(),
					"pagination_token": paginationProp(),
				},
				Required: []string{"tweet_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["tweet_id"].(string)
			return xapi.Path("tweets", id, "liking_users"), withPagination(userListQuery(p, 100), p)
		},
		kind:      userList,
		emptyText: "No liking users found.",
		paginated: true,
	},
	{
		tool: modules.Tool{
			Name:        "get_retweeters",
			Description: "Get a list of users who retweeted a specific tweet.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"tweet_id":         idProp("The numeric ID of the tweet"),
					"max_results":      maxResultsProp(1, 100, 100),
					"user_fields":      userFieldsProp(),
					"pagination_token": paginationProp(),
				},
				Required: []string{"tweet_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["tweet_id"].(string)
			return xapi.Path("tweets", id, "retweeters"), withPagination(userListQuery(p, 100), p)
		},
		kind:      userList,
		emptyText: "No retweeters found.",
		paginated: true,
	},
	{
		tool: modules.Tool{
			Name:        "get_list_tweets",
			Description: "Get recent tweets from an X List by list ID.",
			Annotations: modules.AnnotateReadOnly,
			InputSchema: modules.InputSchema{
				Type: "object",
				Properties: map[string]modules.Property{
					"list_id":          idProp("The numeric ID of the X List"),
					"max_results":      maxResultsProp(1, 100, 100),
					"tweet_fields":     tweetFieldsProp(),
					"pagination_token": paginationProp(),
				},
				Required: []string{"list_id"},
			},
		},
		request: func(p map[string]any) (string, url.Values) {
			id, _ := p["list_id"].(string)
			return xapi.Path("lists", id, "tweets"), withPagination(tweetListQuery(p, 100), p)
		},
		kind:      tweetList,
		emptyText: "No tweets found in this list.",
		paginated: true,
	},
}
