package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/7otion/s7forge/internal/services"
)

const detailsPayload = `{"response":{"result":1,"resultcount":3,"publisheddetails":[
 {"result":1,"publishedfileid":"111","creator":"76561197960287930","creator_appid":4000,"consumer_appid":4000,
  "filename":"map.bin","file_size":"2048","file_url":"https://cdn/map.bin","preview_url":"https://cdn/p.jpg",
  "title":"Big Map","file_description":"desc","time_created":1600000000,"time_updated":1600000500,
  "visibility":0,"banned":false,"file_type":0,"num_children":1,"children":[{"publishedfileid":"333","sortorder":1}],
  "tags":[{"tag":"Maps"},{"tag":"Fun"}],"subscriptions":10,"favorited":2,"views":99,
  "vote_data":{"score":0.75,"votes_up":3,"votes_down":1}},
 {"result":9,"publishedfileid":"222"},
 {"result":1,"publishedfileid":"333","creator":"76561197960287931","file_type":2,"title":"A Collection"}
]}}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGetDetailsDecodesItems(t *testing.T) {
	var query string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/IPublishedFileService/GetDetails/v1/" {
			http.NotFound(w, r)
			return
		}
		query = r.URL.RawQuery
		fmt.Fprint(w, detailsPayload)
	})

	client, err := NewClient("secret", server.URL)
	if err != nil {
		t.Fatal(err)
	}
	slots, err := client.GetDetails(context.Background(), []uint64{222, 111, 333, 444}, true)
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}

	for _, fragment := range []string{"key=secret", "includechildren=true", "publishedfileids%5B0%5D=222"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("query %q missing %q", query, fragment)
		}
	}
	if len(slots) != 4 || slots[0] != nil || slots[3] != nil {
		t.Fatalf("expected nil slots for unresolved ids, got %+v", slots)
	}

	item := slots[1]
	if item == nil || item.PublishedFileID != 111 || item.Title != "Big Map" {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.FileType != "Community" || item.Visibility != "Public" || item.FileSize != 2048 {
		t.Fatalf("unexpected enums/sizes %+v", item)
	}
	if item.Owner.SteamID64 != 76561197960287930 || item.Owner.AccountID != 22202 {
		t.Fatalf("unexpected owner %+v", item.Owner)
	}
	if len(item.Tags) != 2 || item.Tags[1] != "Fun" {
		t.Fatalf("unexpected tags %v", item.Tags)
	}
	if len(item.Children) != 1 || item.Children[0] != 333 {
		t.Fatalf("unexpected children %v", item.Children)
	}
	if item.Statistics.VotesUp != 3 || item.Statistics.Score != 0.75 || item.Statistics.Favorites != 2 {
		t.Fatalf("unexpected statistics %+v", item.Statistics)
	}
	if slots[2].FileType != "Collection" {
		t.Fatalf("expected collection file type, got %q", slots[2].FileType)
	}
}

func TestGetDetailsHTTPError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	client, _ := NewClient("secret", server.URL)
	if _, err := client.GetDetails(context.Background(), []uint64{1}, false); err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestFileTypeName(t *testing.T) {
	cases := map[int64]string{0: "Community", 2: "Collection", 15: "GameManagedItem", 99: "Unknown(99)", -1: "Unknown(-1)"}
	for code, want := range cases {
		if got := FileTypeName(code); got != want {
			t.Fatalf("FileTypeName(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestPersonaResolverChunks(t *testing.T) {
	var requests atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		ids := strings.Split(r.URL.Query().Get("steamids"), ",")
		if len(ids) > maxSummaryIDs {
			t.Errorf("batch of %d ids exceeds limit", len(ids))
		}
		var players []string
		for _, id := range ids {
			if id == "5" {
				continue
			}
			players = append(players, fmt.Sprintf(`{"steamid":"%s","personaname":"p%s"}`, id, id))
		}
		fmt.Fprintf(w, `{"response":{"players":[%s]}}`, strings.Join(players, ","))
	})

	client, _ := NewClient("secret", server.URL)
	ids := make([]uint64, 150)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}
	names, err := NewPersonaResolver(client).ResolveNames(context.Background(), ids, 4000)
	if err != nil {
		t.Fatalf("ResolveNames: %v", err)
	}
	if requests.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", requests.Load())
	}
	if len(names) != 149 || names[150] != "p150" {
		t.Fatalf("unexpected names (%d)", len(names))
	}
	if _, ok := names[5]; ok {
		t.Fatal("unresolved id should be absent")
	}
}

func TestPersonaResolverKeepsOtherBatchesWhenOneFails(t *testing.T) {
	var requests atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var players []string
		for _, id := range strings.Split(r.URL.Query().Get("steamids"), ",") {
			players = append(players, fmt.Sprintf(`{"steamid":"%s","personaname":"p%s"}`, id, id))
		}
		fmt.Fprintf(w, `{"response":{"players":[%s]}}`, strings.Join(players, ","))
	})

	client, _ := NewClient("secret", server.URL)
	ids := make([]uint64, 250)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}
	names, err := NewPersonaResolver(client).ResolveNames(context.Background(), ids, 4000)
	if !errors.Is(err, services.ErrExternalAPI) || !strings.Contains(err.Error(), "ids 101-200 of 250") {
		t.Fatalf("expected failure for the second batch, got %v", err)
	}
	if requests.Load() != 3 {
		t.Fatalf("expected all 3 batches to be requested, got %d", requests.Load())
	}
	if len(names) != 150 || names[1] != "p1" || names[250] != "p250" {
		t.Fatalf("expected names from batches 1 and 3, got %d", len(names))
	}
	if _, ok := names[150]; ok {
		t.Fatal("ids from the failed batch should be absent")
	}
}

func TestClientErrorsNeverContainAPIKey(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient("SUPERSECRETKEY", baseURL)
	if err != nil {
		t.Fatal(err)
	}
	_, detailsErr := client.GetDetails(context.Background(), []uint64{1}, false)
	_, namesErr := client.PlayerNames(context.Background(), []uint64{76561197960287930})
	for name, err := range map[string]error{"GetDetails": detailsErr, "PlayerNames": namesErr} {
		if err == nil {
			t.Fatalf("%s: expected transport error against a closed server", name)
		}
		if strings.Contains(err.Error(), "SUPERSECRETKEY") {
			t.Fatalf("%s error leaks the api key: %v", name, err)
		}
		if !strings.Contains(err.Error(), "execute request") {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
	}
}

func TestPersonaResolverFailureIsExternalAPI(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, _ := NewClient("secret", server.URL)
	_, err := NewPersonaResolver(client).ResolveNames(context.Background(), []uint64{1}, 4000)
	if !errors.Is(err, services.ErrExternalAPI) {
		t.Fatalf("expected external api error, got %v", err)
	}
}
