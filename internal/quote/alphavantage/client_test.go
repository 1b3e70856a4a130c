package alphavantage_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	alphavantage "github.com/epsilonstar-02/AlphaTrack/internal/quote/alphavantage"
)

func TestClient_Name(t *testing.T) {
	t.Parallel()

	client, err := alphavantage.NewClient("test-key")
	require.NoError(t, err)
	require.Equal(t, "AlphaVantage", client.Name())
}

func TestClient_RequestPlumbing(t *testing.T) {
	t.Parallel()

	// Arrange: custom endpoint and an extra header, both of which must
	// reach the outgoing request.
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "example.test", req.URL.Host)
			require.Equal(t, "/query", req.URL.Path)
			require.Equal(t, "alphatrack/1.0", req.Header.Get("User-Agent"))
			require.Equal(t, "application/json", req.Header.Get("Accept"))
			return jsonResponse(t, http.StatusOK, dailyPayload(threeDays())), nil
		}).
		Times(1)

	client, err := alphavantage.NewClient("test-key",
		alphavantage.WithBaseURL("https://example.test/query"),
		alphavantage.WithHTTPClient(httpClient),
		alphavantage.WithHeader(http.Header{"User-Agent": []string{"alphatrack/1.0"}}),
	)
	require.NoError(t, err)

	_, err = client.Daily(t.Context(), "AAPL")
	require.NoError(t, err)
}
