package xapi

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrorDetail is one entry of the upstream errors array.
type ErrorDetail struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// Meta is the pagination block of a collection response.
type Meta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// Envelope is a decoded X API response body: `{data, includes?, meta?, errors?}`.
// Raw keeps the undecoded body for callers that echo it back.
type Envelope struct {
	Data     json.RawMessage
	Includes *Includes
	Meta     *Meta
	Errors   []ErrorDetail
	Raw      []byte
}

// HasData reports whether the response carried a data field.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// NextToken returns the pagination cursor, if any.
func (e *Envelope) NextToken() string {
	if e.Meta == nil {
		return ""
	}
	return e.Meta.NextToken
}

// decodeEnvelope splits a response body into its envelope parts without
// committing to an entity shape for data. Unknown top-level keys are skipped.
func decodeEnvelope(body []byte) (*Envelope, error) {
	env := &Envelope{Raw: body}
	d := jx.DecodeBytes(body)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "data":
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "data")
			}
			env.Data = json.RawMessage(raw)
			return nil
		case "includes":
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "includes")
			}
			env.Includes = &Includes{}
			if err := json.Unmarshal(raw, env.Includes); err != nil {
				return errors.Wrap(err, "includes")
			}
			return nil
		case "meta":
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "meta")
			}
			env.Meta = &Meta{}
			if err := json.Unmarshal(raw, env.Meta); err != nil {
				return errors.Wrap(err, "meta")
			}
			return nil
		case "errors":
			return d.Arr(func(d *jx.Decoder) error {
				detail, err := decodeErrorDetail(d)
				if err != nil {
					return err
				}
				env.Errors = append(env.Errors, detail)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "malformed envelope")
	}
	return env, nil
}

func decodeErrorDetail(d *jx.Decoder) (ErrorDetail, error) {
	var detail ErrorDetail
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "detail":
			return decodeOptStr(d, &detail.Detail)
		case "title":
			return decodeOptStr(d, &detail.Title)
		default:
			return d.Skip()
		}
	})
	return detail, err
}

func decodeOptStr(d *jx.Decoder, dst *string) error {
	if d.Next() == jx.Null {
		return d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}
