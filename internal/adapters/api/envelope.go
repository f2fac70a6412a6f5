package api

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
	"github.com/tidwall/gjson"
)

// Envelope is the server's uniform answer: a success flag plus optional
// data, user and error members.
type Envelope struct {
	Status  int
	Success bool
	Data    gjson.Result
	User    gjson.Result
	Error   string
}

func parseEnvelope(resp *ports.Response) Envelope {
	body := resp.JSON()
	return Envelope{
		Status:  resp.Status,
		Success: body.Get("success").Bool(),
		Data:    body.Get("data"),
		User:    body.Get("user"),
		Error:   errorText(body.Get("error")),
	}
}

// errorText flattens the error member, which the server sends either as a
// string or as an object of field messages.
func errorText(v gjson.Result) string {
	switch {
	case !v.Exists():
		return ""
	case v.IsObject():
		var msg string
		v.ForEach(func(_, value gjson.Result) bool {
			text := value.String()
			if value.IsArray() {
				text = value.Get("0").String()
			}
			if text == "" {
				return true
			}
			if msg != "" {
				msg += "; "
			}
			msg += text
			return true
		})
		return msg
	default:
		return v.String()
	}
}

// Err reports a failure flag as a semantic error.
func (e Envelope) Err(op string) error {
	if e.Success {
		return nil
	}
	return domain.NewSemanticError(op, e.Error)
}

func decodeInto[T any](raw gjson.Result, op string) (T, error) {
	var v T
	if !raw.Exists() || raw.Type == gjson.Null {
		return v, nil
	}
	if err := json.Unmarshal([]byte(raw.Raw), &v); err != nil {
		return v, domain.NewTransportError(op, fmt.Errorf("decode %s: %w", op, err))
	}
	return v, nil
}
