package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/langid/app/webapi/mocks"
	"github.com/umputun/langid/lib/langcheck"
	"github.com/umputun/langid/lib/langid"
)

func newDetectorMock() *mocks.DetectorMock {
	return &mocks.DetectorMock{
		DetectDistributionFunc: func(text string) []langid.Confidence {
			if strings.TrimSpace(text) == "" {
				return []langid.Confidence{}
			}
			if strings.Contains(text, "ambiguous") {
				return []langid.Confidence{{Language: langid.English, Value: 0.51}, {Language: langid.German, Value: 0.49}}
			}
			return []langid.Confidence{{Language: langid.German, Value: 0.75}, {Language: langid.English, Value: 0.25}}
		},
		MinimumRelativeDistanceFunc: func() float64 { return 0.1 },
		LanguagesFunc:               func() langid.LanguageSet { return langid.NewLanguageSet(langid.English, langid.German) },
		LoadedModelsFunc:            func() int { return 2 },
	}
}

func TestServer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(Config{ListenAddr: ":9876", Version: "dev", Detector: newDetectorMock()})
	done := make(chan struct{})
	go func() {
		err := srv.Run(ctx)
		assert.NoError(t, err)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost:9876/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	assert.Contains(t, resp.Header.Get("App-Name"), "langid")
	assert.Contains(t, resp.Header.Get("App-Version"), "dev")

	cancel()
	<-done
}

func TestServer_RunAuth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(Config{ListenAddr: ":9877", Version: "dev", Detector: newDetectorMock(), AuthPasswd: "test"})
	done := make(chan struct{})
	go func() {
		err := srv.Run(ctx)
		assert.NoError(t, err)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	t.Run("ping", func(t *testing.T) {
		resp, err := http.Get("http://localhost:9877/ping")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode) // no auth on ping
	})

	t.Run("detect unauthorized, no basic auth", func(t *testing.T) {
		resp, err := http.Post("http://localhost:9877/detect", "application/json", strings.NewReader(`{"text":"hallo"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("detect authorized", func(t *testing.T) {
		req, err := http.NewRequest("POST", "http://localhost:9877/detect", strings.NewReader(`{"text":"hallo"}`))
		require.NoError(t, err)
		req.SetBasicAuth("langid", "test")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("detect wrong password", func(t *testing.T) {
		req, err := http.NewRequest("POST", "http://localhost:9877/detect", strings.NewReader(`{"text":"hallo"}`))
		require.NoError(t, err)
		req.SetBasicAuth("langid", "bad")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	cancel()
	<-done
}

func TestServer_detectHandler(t *testing.T) {
	det := newDetectorMock()
	srv := NewServer(Config{Detector: det})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	tbl := []struct {
		name     string
		path     string
		body     string
		status   int
		expected langcheck.Response
	}{
		{name: "detected", path: "/detect", body: `{"text":"hallo welt"}`, status: http.StatusOK,
			expected: langcheck.Response{Language: "german", IsoCode: "de", Detected: true}},
		{name: "ambiguous", path: "/detect", body: `{"text":"ambiguous"}`, status: http.StatusOK,
			expected: langcheck.Response{}},
		{name: "empty text", path: "/detect", body: `{"text":""}`, status: http.StatusOK,
			expected: langcheck.Response{}},
		{name: "with confidence", path: "/confidence", body: `{"text":"hallo welt"}`, status: http.StatusOK,
			expected: langcheck.Response{Language: "german", IsoCode: "de", Detected: true,
				Confidence: []langid.Confidence{{Language: langid.German, Value: 0.75}, {Language: langid.English, Value: 0.25}}}},
		{name: "bad request", path: "/detect", body: `{"text":`, status: http.StatusBadRequest},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			var res langcheck.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tt.expected, res)
		})
	}

	recs, err := srv.Recorder.Read(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 4, "bad request is not recorded")
	assert.Equal(t, "german", recs[0].Language)
	assert.InDelta(t, 0.75, recs[0].Confidence, 1e-9)
	assert.Equal(t, "api", recs[0].Source)
	assert.Equal(t, "", recs[1].Language)
	assert.Equal(t, "ambiguous", recs[2].Text)
}

func TestServer_detectCache(t *testing.T) {
	det := newDetectorMock()
	srv := NewServer(Config{Detector: det, CacheTTL: time.Minute, CacheSize: 10})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	post := func(text string) {
		body, err := json.Marshal(langcheck.Request{Text: text})
		require.NoError(t, err)
		resp, err := http.Post(ts.URL+"/detect", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	post("hallo welt")
	post("hallo welt")
	post("something else")
	assert.Len(t, det.DetectDistributionCalls(), 2, "repeated text served from cache")

	srv.ResetCache()
	post("hallo welt")
	assert.Len(t, det.DetectDistributionCalls(), 3, "cache is reset")
}

func TestServer_recorderError(t *testing.T) {
	rec := &mocks.RecorderMock{
		WriteFunc: func(context.Context, langcheck.Record) error { return errors.New("write failed") },
		ReadFunc: func(context.Context, int) ([]langcheck.Record, error) {
			return nil, errors.New("read failed")
		},
	}
	srv := NewServer(Config{Detector: newDetectorMock(), Recorder: rec})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	t.Run("detection is not affected by recorder", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/detect", "application/json", strings.NewReader(`{"text":"hallo"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, rec.WriteCalls(), 1)
		assert.Equal(t, "hallo", rec.WriteCalls()[0].Rec.Text)
	})

	t.Run("history fails", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/history")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestServer_historyHandler(t *testing.T) {
	rec := &mocks.RecorderMock{
		ReadFunc: func(_ context.Context, limit int) ([]langcheck.Record, error) {
			res := []langcheck.Record{{Text: "c", Language: "german"}, {Text: "b"}, {Text: "a", Language: "english"}}
			return res[:min(limit, len(res))], nil
		},
	}
	srv := NewServer(Config{Detector: newDetectorMock(), Recorder: rec})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	tbl := []struct {
		name   string
		query  string
		status int
		texts  []string
		limit  int
	}{
		{name: "default limit", query: "", status: http.StatusOK, texts: []string{"c", "b", "a"}, limit: 100},
		{name: "limit 2", query: "?limit=2", status: http.StatusOK, texts: []string{"c", "b"}, limit: 2},
		{name: "limit capped", query: "?limit=5000", status: http.StatusOK, texts: []string{"c", "b", "a"}, limit: 1000},
		{name: "bad limit", query: "?limit=abc", status: http.StatusBadRequest},
		{name: "zero limit", query: "?limit=0", status: http.StatusBadRequest},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			rec.ResetCalls()
			resp, err := http.Get(ts.URL + "/history" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				assert.Empty(t, rec.ReadCalls())
				return
			}
			var res struct {
				History []langcheck.Record `json:"history"`
				Total   int                `json:"total"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			texts := []string{}
			for _, r := range res.History {
				texts = append(texts, r.Text)
			}
			assert.Equal(t, tt.texts, texts)
			assert.Equal(t, len(tt.texts), res.Total)
			require.Len(t, rec.ReadCalls(), 1)
			assert.Equal(t, tt.limit, rec.ReadCalls()[0].Limit)
		})
	}
}

func TestServer_languagesHandler(t *testing.T) {
	srv := NewServer(Config{Detector: newDetectorMock()})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	type result struct {
		Languages []languageInfo `json:"languages"`
		Total     int            `json:"total"`
	}
	get := func(t *testing.T, query string) (*http.Response, result) {
		resp, err := http.Get(ts.URL + "/languages" + query)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		var res result
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		}
		return resp, res
	}

	t.Run("all", func(t *testing.T) {
		resp, res := get(t, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, len(langid.All()), res.Total)
		candidates := 0
		for _, l := range res.Languages {
			if l.Candidate {
				candidates++
				assert.Contains(t, []string{"english", "german"}, l.Name)
			}
		}
		assert.Equal(t, 2, candidates)
	})

	t.Run("cyrillic", func(t *testing.T) {
		resp, res := get(t, "?script=cyrillic")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, len(langid.AllWithCyrillicScript()), res.Total)
		for _, l := range res.Languages {
			assert.Contains(t, l.Scripts, langid.ScriptCyrillic)
		}
	})

	t.Run("not spoken", func(t *testing.T) {
		resp, res := get(t, "?spoken=false")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		names := []string{}
		for _, l := range res.Languages {
			names = append(names, l.Name)
		}
		assert.Equal(t, []string{"esperanto", "latin"}, names)
	})

	t.Run("bad script", func(t *testing.T) {
		resp, _ := get(t, "?script=klingon")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad spoken", func(t *testing.T) {
		resp, _ := get(t, "?spoken=maybe")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_languageHandler(t *testing.T) {
	srv := NewServer(Config{Detector: newDetectorMock()})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	tbl := []struct {
		code      string
		status    int
		name      string
		candidate bool
	}{
		{"de", http.StatusOK, "german", true},
		{"deu", http.StatusOK, "german", true},
		{"uk", http.StatusOK, "ukrainian", false},
		{"xx", http.StatusNotFound, "", false},
		{"xxx", http.StatusNotFound, "", false},
	}

	for _, tt := range tbl {
		t.Run(tt.code, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/languages/" + tt.code)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			var res languageInfo
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tt.name, res.Name)
			assert.Equal(t, tt.candidate, res.Candidate)
		})
	}
}

func TestServer_metrics(t *testing.T) {
	srv := NewServer(Config{Detector: newDetectorMock(), CacheTTL: time.Minute})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	for _, text := range []string{"hallo", "hallo", "ambiguous"} {
		resp, err := http.Post(ts.URL+"/detect", "application/json", strings.NewReader(`{"text":"`+text+`"}`))
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `langid_detections_total{language="german"} 2`)
	assert.Contains(t, string(body), `langid_detections_total{language="unknown"} 1`)
	assert.Contains(t, string(body), `langid_cache_hits_total 1`)
	assert.Contains(t, string(body), `langid_models_loaded 2`)
	assert.Contains(t, string(body), `langid_detection_duration_seconds_count 2`)
}

func TestServer_rateLimit(t *testing.T) {
	srv := NewServer(Config{Detector: newDetectorMock(), RateLimit: 1})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	limited := 0
	for range 5 {
		resp, err := http.Get(ts.URL + "/languages/en")
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Positive(t, limited)
}

func TestGenerateRandomPassword(t *testing.T) {
	res, err := GenerateRandomPassword(32)
	require.NoError(t, err)
	assert.Len(t, res, 32)

	res2, err := GenerateRandomPassword(32)
	require.NoError(t, err)
	assert.NotEqual(t, res, res2)
}
