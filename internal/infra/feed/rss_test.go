package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anishelf/internal/infra/feed"
)

func TestRSSFetcher_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Anime News</title>
    <link>https://example.com</link>
    <description>Latest anime news</description>
    <item>
      <title>Winter season lineup announced</title>
      <link>https://example.com/winter-lineup</link>
      <description>The winter lineup is out.</description>
      <pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Studio opens new branch</title>
      <link>https://example.com/studio-branch</link>
      <description>A studio expands.</description>
      <pubDate>Tue, 02 Jan 2024 00:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	defer server.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	fetcher := feed.NewRSSFetcher(client)
	fetcher.AllowPrivateHosts()

	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("items length = %d, want 2", len(items))
	}
	if items[0].Title != "Winter season lineup announced" {
		t.Errorf("items[0].Title = %q", items[0].Title)
	}
	if items[0].URL != "https://example.com/winter-lineup" {
		t.Errorf("items[0].URL = %q", items[0].URL)
	}
	if items[0].Summary != "The winter lineup is out." {
		t.Errorf("items[0].Summary = %q", items[0].Summary)
	}

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("items[0].PublishedAt = %v, want %v", items[0].PublishedAt, want)
	}
}

func TestRSSFetcher_Fetch_MissingPubDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Anime News</title>
    <item>
      <title>Undated item</title>
      <link>https://example.com/undated</link>
      <description>No date on this one.</description>
    </item>
  </channel>
</rss>`
		_, _ = w.Write([]byte(rss))
	}))
	defer server.Close()

	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 5 * time.Second})
	fetcher.AllowPrivateHosts()

	before := time.Now()
	items, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	if items[0].PublishedAt.Before(before) {
		t.Error("missing pubDate should default to fetch time")
	}
}

func TestRSSFetcher_Fetch_InvalidXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 5 * time.Second})
	fetcher.AllowPrivateHosts()

	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for invalid feed content")
	}
}

func TestRSSFetcher_Fetch_RejectsPrivateHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server when the guard is active")
	}))
	defer server.Close()

	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 5 * time.Second})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !errors.Is(err, feed.ErrPrivateIP) {
		t.Fatalf("Fetch() error = %v, want ErrPrivateIP", err)
	}
}

func TestRSSFetcher_Fetch_RejectsBadScheme(t *testing.T) {
	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 5 * time.Second})

	tests := []string{
		"ftp://example.com/feed.xml",
		"file:///etc/passwd",
		"://missing-scheme",
	}
	for _, url := range tests {
		if _, err := fetcher.Fetch(context.Background(), url); !errors.Is(err, feed.ErrInvalidURL) {
			t.Errorf("Fetch(%q) error = %v, want ErrInvalidURL", url, err)
		}
	}
}

func TestRSSFetcher_Fetch_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 5 * time.Second})
	fetcher.AllowPrivateHosts()

	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for unreachable feed")
	}
}
