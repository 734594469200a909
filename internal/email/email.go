// Package email sends transactional mail through the Sendinblue HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://api.sendinblue.com"

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Message struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	ReplyTo     Address   `json:"replyTo,omitempty"`
	HtmlContent string    `json:"htmlContent,omitempty"`
}

type Client struct {
	senderAddress string
	siteName      string
	client        *http.Client
	apiKey        string
	baseURL       string
}

// NewClient returns a client that drops every message when apiKey is empty.
func NewClient(apiKey, senderAddress, siteName, baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Client{
		client:        &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		senderAddress: senderAddress,
		siteName:      siteName,
		baseURL:       baseURL,
	}
}

func (e Client) Enabled() bool {
	return e.apiKey != ""
}

func (e Client) Send(ctx context.Context, msg Message) error {
	if !e.Enabled() {
		return nil
	}
	if msg.Sender.Email == "" {
		msg.Sender = Address{Name: e.siteName, Email: e.senderAddress}
	}
	reqData, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "unable to marshal email")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v3/smtp/email", bytes.NewReader(reqData))
	if err != nil {
		return errors.Wrap(err, "unable to build email request")
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("content-type", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "unable to send email")
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := ioutil.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return errors.Errorf("got status code %d when sending email: err %s", res.StatusCode, string(errBody))
	}
	return nil
}

// Delivery describes a resume sent to a job, as told to the hiring company.
type Delivery struct {
	CompanyName  string
	CompanyEmail string
	JobName      string
	JobURL       string
	UserName     string
	UserEmail    string
	ResumeURL    string
}

var deliveryTmpl = template.Must(template.New("delivery").Parse(
	`<p>{{ .UserName }} &lt;{{ .UserEmail }}&gt; applied to <a href="{{ .JobURL }}">{{ .JobName }}</a>.</p>` +
		`<p><a href="{{ .ResumeURL }}">Resume</a></p>`,
))

// NotifyDelivery tells the company a resume reached one of its jobs. Replies
// go to the applicant.
func (e Client) NotifyDelivery(ctx context.Context, d Delivery) error {
	body := &bytes.Buffer{}
	if err := deliveryTmpl.Execute(body, d); err != nil {
		return errors.Wrap(err, "unable to render delivery email")
	}
	return e.Send(ctx, Message{
		To:          []Address{{Name: d.CompanyName, Email: d.CompanyEmail}},
		ReplyTo:     Address{Name: d.UserName, Email: d.UserEmail},
		Subject:     fmt.Sprintf("[%s] %s: %s", e.siteName, d.JobName, d.UserName),
		HtmlContent: body.String(),
	})
}
