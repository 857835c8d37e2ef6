package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/workshop"
)

// DefaultBaseURL is the public Steam Web API host.
const DefaultBaseURL = "https://api.steampowered.com"

// resultOK is the EResult value for a successful lookup.
const resultOK = 1

// fileTypes maps EWorkshopFileType values to their names.
var fileTypes = []string{
	"Community",
	"Microtransaction",
	"Collection",
	"Art",
	"Video",
	"Screenshot",
	"Game",
	"Software",
	"Concept",
	"WebGuide",
	"IntegratedGuide",
	"Merch",
	"ControllerBinding",
	"SteamworksAccessInvite",
	"SteamVideo",
	"GameManagedItem",
}

var visibilities = []string{"Public", "FriendsOnly", "Private", "Unlisted"}

// FileTypeName returns the name of a numeric workshop file type.
func FileTypeName(code int64) string {
	if code >= 0 && int(code) < len(fileTypes) {
		return fileTypes[code]
	}
	return "Unknown(" + strconv.FormatInt(code, 10) + ")"
}

func visibilityName(code int64) string {
	if code >= 0 && int(code) < len(visibilities) {
		return visibilities[code]
	}
	return "Unknown"
}

// Client calls the Steam Web API endpoints s7forge needs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient creates a Web API client. An empty key is a configuration error.
func NewClient(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "platform", "client", "steam.web_api_key is not set", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetDetails fetches published file details. The returned slice has one slot
// per id, in id order; ids the API did not resolve are nil.
func (c *Client) GetDetails(ctx context.Context, ids []uint64, includeChildren bool) ([]*workshop.Item, error) {
	params := url.Values{}
	for i, id := range ids {
		params.Set(fmt.Sprintf("publishedfileids[%d]", i), strconv.FormatUint(id, 10))
	}
	params.Set("includetags", "true")
	params.Set("includevotes", "true")
	params.Set("includechildren", strconv.FormatBool(includeChildren))
	params.Set("short_description", "false")

	body, err := c.get(ctx, "/IPublishedFileService/GetDetails/v1/", params)
	if err != nil {
		return nil, err
	}

	details := gjson.GetBytes(body, "response.publisheddetails")
	if !details.Exists() {
		return nil, errors.New("GetDetails: response missing publisheddetails")
	}

	byID := make(map[uint64]*workshop.Item, len(ids))
	details.ForEach(func(_, entry gjson.Result) bool {
		if entry.Get("result").Int() != resultOK {
			return true
		}
		item := parseItem(entry)
		byID[item.PublishedFileID] = &item
		return true
	})

	slots := make([]*workshop.Item, len(ids))
	for i, id := range ids {
		slots[i] = byID[id]
	}
	return slots, nil
}

// PlayerNames fetches persona names for at most 100 steam ids.
func (c *Client) PlayerNames(ctx context.Context, steamIDs []uint64) (map[uint64]string, error) {
	parts := make([]string, len(steamIDs))
	for i, id := range steamIDs {
		parts[i] = strconv.FormatUint(id, 10)
	}
	params := url.Values{}
	params.Set("steamids", strings.Join(parts, ","))

	body, err := c.get(ctx, "/ISteamUser/GetPlayerSummaries/v2/", params)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(steamIDs))
	gjson.GetBytes(body, "response.players").ForEach(func(_, player gjson.Result) bool {
		id := player.Get("steamid").Uint()
		name := player.Get("personaname").String()
		if id != 0 && name != "" {
			names[id] = name
		}
		return true
	})
	return names, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse steam url: %w", err)
	}
	params.Set("key", c.apiKey)
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", withoutQuery(err))
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, withoutQuery(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s returned invalid json", path)
	}
	return body, nil
}

// withoutQuery strips the query string, and with it the API key, from the
// URL that net/http embeds in transport errors.
func withoutQuery(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	redacted := *ue
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		redacted.URL = u.String()
	} else {
		redacted.URL = "<redacted>"
	}
	return &redacted
}

func parseItem(entry gjson.Result) workshop.Item {
	owner := entry.Get("creator").Uint()
	item := workshop.Item{
		PublishedFileID: entry.Get("publishedfileid").Uint(),
		CreatorAppID:    uint32(entry.Get("creator_appid").Uint()),
		ConsumerAppID:   uint32(entry.Get("consumer_appid").Uint()),
		Title:           entry.Get("title").String(),
		Description:     entry.Get("file_description").String(),
		Owner:           workshop.Owner{SteamID64: owner, AccountID: uint32(owner & 0xFFFFFFFF)},
		TimeCreated:     entry.Get("time_created").Int(),
		TimeUpdated:     entry.Get("time_updated").Int(),
		Visibility:      visibilityName(entry.Get("visibility").Int()),
		Banned:          entry.Get("banned").Bool(),
		FileName:        entry.Get("filename").String(),
		FileType:        FileTypeName(entry.Get("file_type").Int()),
		FileSize:        entry.Get("file_size").Uint(),
		URL:             entry.Get("file_url").String(),
		PreviewURL:      entry.Get("preview_url").String(),
		NumChildren:     uint32(entry.Get("num_children").Uint()),
		Statistics: workshop.Statistics{
			Subscriptions: entry.Get("subscriptions").Uint(),
			Favorites:     entry.Get("favorited").Uint(),
			Followers:     entry.Get("followers").Uint(),
			Views:         entry.Get("views").Uint(),
			LifetimePlays: entry.Get("lifetime_playtime_sessions").Uint(),
			NumComments:   entry.Get("num_comments_public").Uint(),
			NumReports:    entry.Get("num_reports").Uint(),
			VotesUp:       uint32(entry.Get("vote_data.votes_up").Uint()),
			VotesDown:     uint32(entry.Get("vote_data.votes_down").Uint()),
			Score:         entry.Get("vote_data.score").Float(),
		},
	}
	item.Tags = []string{}
	entry.Get("tags.#.tag").ForEach(func(_, tag gjson.Result) bool {
		item.Tags = append(item.Tags, tag.String())
		return true
	})
	entry.Get("children.#.publishedfileid").ForEach(func(_, child gjson.Result) bool {
		item.Children = append(item.Children, child.Uint())
		return true
	})
	return item
}
