package lib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRequest() *GatewaySessionRequest {
	return &GatewaySessionRequest{
		Reference:       "TXN_abc123",
		Amount:          1000,
		Currency:        "BDT",
		CustomerName:    "Someone",
		CustomerEmail:   "someone@example.com",
		CustomerPhone:   "01700000000",
		ProductName:     "General Support",
		ProductCategory: "Donation",
	}
}

func TestCreateSessionSuccess(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"store_id":     r.PostFormValue("store_id"),
			"tran_id":      r.PostFormValue("tran_id"),
			"total_amount": r.PostFormValue("total_amount"),
			"currency":     r.PostFormValue("currency"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","sessionkey":"SK1","GatewayPageURL":"https://pay.example/SK1"}`))
	}))
	defer srv.Close()
	t.Setenv("SSLCZ_STORE_ID", "store1")
	t.Setenv("SSLCZ_SESSION_URL", srv.URL)

	c := &sslcommerzClient{http: srv.Client()}
	sess, err := c.CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", sess.Status)
	assert.Equal(t, "SK1", sess.SessionKey)
	assert.Equal(t, "https://pay.example/SK1", sess.RedirectURL)

	assert.Equal(t, "store1", form["store_id"])
	assert.Equal(t, "TXN_abc123", form["tran_id"])
	assert.Equal(t, "1000.00", form["total_amount"])
	assert.Equal(t, "BDT", form["currency"])
}

func TestCreateSessionFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credentials invalid"}`))
	}))
	defer srv.Close()
	t.Setenv("SSLCZ_SESSION_URL", srv.URL)

	c := &sslcommerzClient{http: srv.Client()}
	sess, err := c.CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "FAILED", sess.Status)
	assert.Equal(t, "store credentials invalid", sess.FailedReason)
}

func TestCreateSessionBadResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	t.Setenv("SSLCZ_SESSION_URL", srv.URL)

	c := &sslcommerzClient{http: srv.Client()}
	_, err := c.CreateSession(context.Background(), sessionRequest())
	assert.Error(t, err)

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv2.Close()
	t.Setenv("SSLCZ_SESSION_URL", srv2.URL)

	_, err = c.CreateSession(context.Background(), sessionRequest())
	assert.Error(t, err)
}
