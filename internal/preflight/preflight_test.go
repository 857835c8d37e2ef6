package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/7otion/s7forge/internal/config"
	"github.com/7otion/s7forge/internal/steamlib"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWebAPI_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != webAPIProbePath || r.URL.Query().Get("key") != "good-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckWebAPI(context.Background(), srv.URL, "good-key")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckWebAPI_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	result := CheckWebAPI(context.Background(), srv.URL, "bad-key")
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
}

func TestCheckWebAPI_MissingKey(t *testing.T) {
	result := CheckWebAPI(context.Background(), "http://localhost", " ")
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestCheckSteamLibraries(t *testing.T) {
	install := t.TempDir()
	if err := os.MkdirAll(filepath.Join(install, "steamapps"), 0o755); err != nil {
		t.Fatal(err)
	}
	vdf := "\"libraryfolders\"\n{\n\t\"0\"\n\t{\n\t\t\"path\"\t\t\"" + install + "\"\n\t}\n}\n"
	if err := os.WriteFile(filepath.Join(install, "steamapps", "libraryfolders.vdf"), []byte(vdf), 0o644); err != nil {
		t.Fatal(err)
	}

	ok := CheckSteamLibraries(steamlib.New(nil, time.Hour, steamlib.WithInstallPaths([]string{install})))
	if !ok.Passed {
		t.Fatalf("expected pass, got: %s", ok.Detail)
	}

	missing := CheckSteamLibraries(steamlib.New(nil, time.Hour, steamlib.WithInstallPaths([]string{filepath.Join(install, "nope")})))
	if missing.Passed {
		t.Fatal("expected failure without an installation")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReportsEachCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	cfg.Logging.Dir = ""
	cfg.Steam.WebAPIBaseURL = srv.URL
	cfg.Steam.WebAPIKey = "test"

	results := RunAll(context.Background(), &cfg, nil)
	if len(results) != 2 {
		t.Fatalf("expected cache + web api checks, got %+v", results)
	}
	if n := Failed(results); n != 0 {
		t.Fatalf("expected all checks to pass, %d failed: %+v", n, results)
	}

	cfg.Steam.WebAPIKey = ""
	if n := Failed(RunAll(context.Background(), &cfg, nil)); n != 1 {
		t.Fatalf("expected missing key to fail one check, got %d", n)
	}
}
