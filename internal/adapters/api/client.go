// Package api holds the typed resource clients that talk to the finance
// API through a ports.Transport.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/ports"
	"github.com/sirupsen/logrus"
)

type Client struct {
	baseURL   string
	transport ports.Transport
	log       logrus.FieldLogger
}

func NewClient(baseURL string, transport ports.Transport, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		log:       logging.Component(logger, "api"),
	}
}

func (c *Client) Accounts() *AccountClient {
	return &AccountClient{entity: newEntity[domain.Account](c, "account")}
}

func (c *Client) Transactions() *TransactionClient {
	return &TransactionClient{entity: newEntity[domain.Transaction](c, "transaction")}
}

func (c *Client) Users() *UserClient {
	return &UserClient{c: c}
}

// call sends one JSON request. Transport failures come back as domain
// transport errors; any response, successful or not, is an Envelope.
func (c *Client) call(ctx context.Context, op, method, path string, data ports.Values, cb func(Envelope, error)) {
	req := ports.Request{
		URL:          c.baseURL + path,
		Method:       method,
		Data:         data,
		ResponseKind: ports.ResponseJSON,
	}
	c.transport.Send(ctx, req, func(resp *ports.Response, err error) {
		if err != nil {
			cb(Envelope{}, domain.NewTransportError(op, err))
			return
		}
		env := parseEnvelope(resp)
		if !env.Success {
			c.log.WithFields(logrus.Fields{"op": op, "status": env.Status, "error": env.Error}).Debug("request rejected")
		}
		cb(env, nil)
	})
}

func (c *Client) get(ctx context.Context, op, path string, data ports.Values, cb func(Envelope, error)) {
	c.call(ctx, op, http.MethodGet, path, data, cb)
}

func (c *Client) post(ctx context.Context, op, path string, data ports.Values, cb func(Envelope, error)) {
	c.call(ctx, op, http.MethodPost, path, data, cb)
}
