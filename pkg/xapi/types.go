package xapi

// User is an X user entity. Only id is guaranteed present; every other
// field appears when the caller asked for it and the profile carries it.
type User struct {
	ID              string       `json:"id"`
	Username        string       `json:"username"`
	Name            string       `json:"name"`
	CreatedAt       string       `json:"created_at"`
	Description     string       `json:"description"`
	Location        string       `json:"location"`
	URL             string       `json:"url"`
	ProfileImageURL string       `json:"profile_image_url"`
	Verified        bool         `json:"verified"`
	VerifiedType    string       `json:"verified_type"`
	PublicMetrics   *UserMetrics `json:"public_metrics"`
}

// UserMetrics is the public_metrics block of a user.
type UserMetrics struct {
	Followers int `json:"followers_count"`
	Following int `json:"following_count"`
	Tweets    int `json:"tweet_count"`
	Listed    int `json:"listed_count"`
}

// Tweet is an X post entity. Only id is guaranteed present.
type Tweet struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	AuthorID         string            `json:"author_id"`
	CreatedAt        string            `json:"created_at"`
	ConversationID   string            `json:"conversation_id"`
	ReferencedTweets []ReferencedTweet `json:"referenced_tweets"`
	PublicMetrics    *TweetMetrics     `json:"public_metrics"`
}

// ReferencedTweet is a quote/reply/retweet relation on a tweet.
type ReferencedTweet struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// TweetMetrics is the public_metrics block of a tweet.
type TweetMetrics struct {
	Likes    int `json:"like_count"`
	Retweets int `json:"retweet_count"`
	Replies  int `json:"reply_count"`
	Quotes   int `json:"quote_count"`
}

// Includes is the side-table of entities referenced by a primary result
// set, returned alongside but not inside it.
type Includes struct {
	Users []User `json:"users"`
}

// UserByID resolves a user from the side-table by linear scan.
// Side-tables are bounded by page size, an index is not worth building.
func (i *Includes) UserByID(id string) *User {
	if i == nil {
		return nil
	}
	for idx := range i.Users {
		if i.Users[idx].ID == id {
			return &i.Users[idx]
		}
	}
	return nil
}
