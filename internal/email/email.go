package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.sendinblue.com"

// Sender is implemented by Client, handlers depend on this instead
type Sender interface {
	SendHTMLEmail(from, to, replyTo Address, subject, text string) error
	DefaultSender() Address
}

type Client struct {
	senderAddress string
	siteName      string
	client        http.Client
	apiKey        string
	baseURL       string
}

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type EmailMessage struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	ReplyTo     Address   `json:"replyTo,omitempty"`
	TextContent string    `json:"textContent,omitempty"`
	HtmlContent string    `json:"htmlContent,omitempty"`
}

func NewClient(apiKey, senderAddress, siteName string) Client {
	return Client{
		client:        http.Client{Timeout: 15 * time.Second},
		apiKey:        apiKey,
		senderAddress: senderAddress,
		siteName:      siteName,
		baseURL:       defaultBaseURL,
	}
}

// WithBaseURL points the client at another API host
func (e Client) WithBaseURL(baseURL string) Client {
	e.baseURL = baseURL
	return e
}

func (e Client) DefaultSender() Address {
	return Address{Name: e.siteName, Email: e.senderAddress}
}

func (e Client) SendHTMLEmail(from, to, replyTo Address, subject, text string) error {
	msg := EmailMessage{
		Sender:      from,
		ReplyTo:     replyTo,
		Subject:     subject,
		To:          []Address{to},
		HtmlContent: text,
	}
	reqData, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/v3/smtp/email", bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("content-type", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "unable to reach email api")
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := ioutil.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return fmt.Errorf("got status code %d when sending email: err %s", res.StatusCode, string(errBody))
	}
	return nil
}
