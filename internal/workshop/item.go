package workshop

// Owner identifies the Steam account that published an item.
type Owner struct {
	SteamID64 uint64 `json:"steam_id64"`
	AccountID uint32 `json:"account_id"`
}

// Statistics carries the counters the Web API reports per item.
type Statistics struct {
	Subscriptions uint64  `json:"subscriptions"`
	Favorites     uint64  `json:"favorites"`
	Followers     uint64  `json:"followers"`
	Views         uint64  `json:"views"`
	LifetimePlays uint64  `json:"lifetime_playtime_sessions"`
	NumComments   uint64  `json:"num_comments_public"`
	NumReports    uint64  `json:"num_reports"`
	VotesUp       uint32  `json:"votes_up"`
	VotesDown     uint32  `json:"votes_down"`
	Score         float64 `json:"score"`
}

// Item is the metadata of one published workshop file. Cached items are
// replaced wholesale, never patched.
type Item struct {
	PublishedFileID uint64     `json:"published_file_id"`
	CreatorAppID    uint32     `json:"creator_app_id"`
	ConsumerAppID   uint32     `json:"consumer_app_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Owner           Owner      `json:"owner"`
	TimeCreated     int64      `json:"time_created"`
	TimeUpdated     int64      `json:"time_updated"`
	Visibility      string     `json:"visibility"`
	Banned          bool       `json:"banned"`
	Tags            []string   `json:"tags"`
	FileName        string     `json:"file_name"`
	FileType        string     `json:"file_type"`
	FileSize        uint64     `json:"file_size"`
	URL             string     `json:"url"`
	PreviewURL      string     `json:"preview_url"`
	NumChildren     uint32     `json:"num_children"`
	Children        []uint64   `json:"children,omitempty"`
	Statistics      Statistics `json:"statistics"`
}

// Clone returns a copy that shares no slices with item.
func (item Item) Clone() Item {
	out := item
	if item.Tags != nil {
		out.Tags = append([]string(nil), item.Tags...)
	}
	if item.Children != nil {
		out.Children = append([]uint64(nil), item.Children...)
	}
	return out
}

// EnrichedItem is an Item plus the resolved creator. It marshals flat: the
// item fields followed by creator_id and creator_name.
type EnrichedItem struct {
	Item
	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`
}

// UnknownCreator is the creator name used when resolution fails.
const UnknownCreator = "[unknown]"
