package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/harvest/models"
)

func getJSON(t *testing.T, r http.Handler, path string, into any) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	if into != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
	}
	return w.Code
}

func TestJobs_UnknownID(t *testing.T) {
	r := newTestRouter(testScraperConfig())

	var resp models.ErrorResponse
	code := getJSON(t, r, "/jobs/job-does-not-exist", &resp)
	require.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "job not found", resp.Error.Message)
}

func TestJobs_RejectsMissingURLList(t *testing.T) {
	r := newTestRouter(testScraperConfig())

	w := postJSON(r, "/jobs", `{"urls":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.MsgMissingURLs, resp.Error.Message)
}

func TestJobs_Lifecycle(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/missing" {
			http.NotFound(w, req)
			return
		}
		fmt.Fprint(w, "<h1>Job page</h1>")
	}))
	defer origin.Close()

	r := newTestRouter(testScraperConfig())
	urls := []string{origin.URL + "/ok", origin.URL + "/missing"}
	body, _ := json.Marshal(models.ScrapeRequest{URLs: urls})

	w := postJSON(r, "/jobs", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var created models.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.JobProcessing, created.Status)
	assert.Equal(t, 2, created.Total)

	// Poll until the job settles. The condition runs on a testify
	// goroutine, so it reports via its return value only.
	var status models.JobStatusResponse
	require.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/jobs/"+created.ID, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			return false
		}
		var s models.JobStatusResponse
		if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
			return false
		}
		if s.Status == models.JobProcessing {
			return false
		}
		status = s
		return true
	}, 5*time.Second, 50*time.Millisecond, "job never settled")

	// One success + one 404 → partial.
	assert.Equal(t, models.JobPartial, status.Status)
	assert.Equal(t, 2, status.Completed)
	require.Len(t, status.Outcomes, 2)

	assert.Equal(t, urls[0], status.Outcomes[0].URL)
	assert.Equal(t, models.StatusSuccess, status.Outcomes[0].Status)
	assert.Equal(t, urls[1], status.Outcomes[1].URL)
	assert.Equal(t, models.StatusFailed, status.Outcomes[1].Status)
	assert.Contains(t, status.Outcomes[1].Error, "404")
}
