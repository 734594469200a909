package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyDelivery(t *testing.T) {
	var got Message
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		key = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient("secret", "no-reply@jobs.test", "Job Web", srv.URL)
	err := c.NotifyDelivery(context.Background(), Delivery{
		CompanyName:  "Acme",
		CompanyEmail: "hr@acme.test",
		JobName:      "Go 工程师",
		JobURL:       "http://jobs.test/job/1",
		UserName:     "Jane",
		UserEmail:    "jane@mail.test",
		ResumeURL:    "http://jobs.test/resumes/jane/cv.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
	assert.Equal(t, "no-reply@jobs.test", got.Sender.Email)
	assert.Equal(t, []Address{{Name: "Acme", Email: "hr@acme.test"}}, got.To)
	assert.Equal(t, "jane@mail.test", got.ReplyTo.Email)
	assert.Equal(t, "[Job Web] Go 工程师: Jane", got.Subject)
	assert.Contains(t, got.HtmlContent, "http://jobs.test/resumes/jane/cv.pdf")
}

func TestSendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewClient("wrong", "no-reply@jobs.test", "Job Web", srv.URL).Send(context.Background(), Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDisabledClientSendsNothing(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("", "no-reply@jobs.test", "Job Web", srv.URL)
	assert.False(t, c.Enabled())
	require.NoError(t, c.NotifyDelivery(context.Background(), Delivery{CompanyEmail: "hr@acme.test"}))
	assert.False(t, called)
}
