package chatControllers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommendRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/recommend", Recommend())
	return r
}

func TestRecommendProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":[{"productName":"Lamp","price":12.5,"imageURL":"http://img/lamp","description":"desk lamp"}]}`))
	}))
	defer upstream.Close()
	t.Setenv("RECOMMENDER_URL", upstream.URL)

	r := newRecommendRouter()
	w := postJSON(r, "/recommend", gin.H{"query": "light for my desk"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lamp")
}

func TestRecommendRetriesTransientFailure(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":[]}`))
	}))
	defer upstream.Close()
	t.Setenv("RECOMMENDER_URL", upstream.URL)

	r := newRecommendRouter()
	w := postJSON(r, "/recommend", gin.H{"query": "anything"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestRecommendUpstreamDown(t *testing.T) {
	t.Setenv("RECOMMENDER_URL", "http://127.0.0.1:1") // nothing listens here

	r := newRecommendRouter()
	w := postJSON(r, "/recommend", gin.H{"query": "anything"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRecommendValidation(t *testing.T) {
	r := newRecommendRouter()
	w := postJSON(r, "/recommend", gin.H{"k": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
