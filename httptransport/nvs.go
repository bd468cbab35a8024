package httptransport

import (
	"context"
	"encoding/json"
	"fmt"

	"odkey/protocol"
	"odkey/protocol/nvscodec"
)

func decodeJSONBody(body []byte, v interface{}) error {
	return json.Unmarshal(body, v)
}

// nvsSetRequest is the JSON body for non-blob NVS sets. Blob values
// are posted as a raw octet-stream body instead, matching the
// original tooling's split between the two encodings.
type nvsSetRequest struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// nvsGetResponse is the JSON shape non-blob NVS gets return.
type nvsGetResponse struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// NVSSet implements protocol.Transport.
func (t *Transport) NVSSet(ctx context.Context, key string, value protocol.NVSValue) error {
	if len(key) > protocol.NVSMaxKeyLength {
		return protocol.NewProtocolError("NVS key too long (max 15 characters)", nil)
	}
	if len(value.Raw) > protocol.NVSMaxPayloadLength {
		return protocol.NewProtocolError("NVS value too large (max 1024 bytes)", nil)
	}

	url := fmt.Sprintf("%s/api/nvs/%s", t.baseURL, key)

	if value.Type == protocol.NVSTypeBlob {
		resp, err := t.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/octet-stream").
			SetBody(value.Raw).
			Post(url)
		if err != nil {
			return protocol.NewTransportError("setting NVS blob value", err)
		}
		if resp.StatusCode() != 200 {
			return httpError("set failed", resp)
		}
		return nil
	}

	jsonValue, err := decodedJSONValue(value)
	if err != nil {
		return err
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(nvsSetRequest{Type: value.Type.String(), Value: jsonValue}).
		Post(url)
	if err != nil {
		return protocol.NewTransportError("setting NVS value", err)
	}
	if resp.StatusCode() != 200 {
		return httpError("set failed", resp)
	}
	return nil
}

// decodedJSONValue turns a wire-encoded NVSValue into the Go value its
// JSON representation should carry: a number for integer types, a
// string for the string type.
func decodedJSONValue(value protocol.NVSValue) (interface{}, error) {
	switch value.Type {
	case protocol.NVSTypeU8, protocol.NVSTypeU16, protocol.NVSTypeU32, protocol.NVSTypeU64:
		v, err := nvscodec.DecodeUint(value.Type, value.Raw)
		if err != nil {
			return nil, protocol.NewProtocolError("decoding NVS value", err)
		}
		return v, nil
	case protocol.NVSTypeI8, protocol.NVSTypeI16, protocol.NVSTypeI32, protocol.NVSTypeI64:
		v, err := nvscodec.DecodeInt(value.Type, value.Raw)
		if err != nil {
			return nil, protocol.NewProtocolError("decoding NVS value", err)
		}
		return v, nil
	case protocol.NVSTypeString:
		return nvscodec.DecodeString(value.Raw), nil
	default:
		return nil, protocol.NewProtocolError("unsupported NVS type for JSON encoding", nil)
	}
}

// NVSGet implements protocol.Transport.
func (t *Transport) NVSGet(ctx context.Context, key string) (protocol.NVSValue, error) {
	url := fmt.Sprintf("%s/api/nvs/%s", t.baseURL, key)

	resp, err := t.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return protocol.NVSValue{}, protocol.NewTransportError("getting NVS value", err)
	}
	if resp.StatusCode() != 200 {
		return protocol.NVSValue{}, httpError("get failed", resp)
	}

	if resp.Header().Get("Content-Type") == "application/octet-stream" {
		return protocol.NVSValue{Type: protocol.NVSTypeBlob, Raw: resp.Body()}, nil
	}

	var body nvsGetResponse
	if err := decodeJSONBody(resp.Body(), &body); err != nil {
		return protocol.NVSValue{}, protocol.NewProtocolError("decoding NVS get response", err)
	}

	typ, err := protocol.ParseNVSType(body.Type)
	if err != nil {
		return protocol.NVSValue{}, err
	}

	raw, err := encodeJSONValue(typ, body.Value)
	if err != nil {
		return protocol.NVSValue{}, err
	}

	return protocol.NVSValue{Type: typ, Raw: raw}, nil
}

func encodeJSONValue(typ protocol.NVSType, value interface{}) ([]byte, error) {
	switch typ {
	case protocol.NVSTypeU8, protocol.NVSTypeU16, protocol.NVSTypeU32, protocol.NVSTypeU64:
		n, ok := value.(float64)
		if !ok {
			return nil, protocol.NewProtocolError("expected numeric NVS value", nil)
		}
		return nvscodec.EncodeUint(typ, uint64(n))
	case protocol.NVSTypeI8, protocol.NVSTypeI16, protocol.NVSTypeI32, protocol.NVSTypeI64:
		n, ok := value.(float64)
		if !ok {
			return nil, protocol.NewProtocolError("expected numeric NVS value", nil)
		}
		return nvscodec.EncodeInt(typ, int64(n))
	case protocol.NVSTypeString:
		s, ok := value.(string)
		if !ok {
			return nil, protocol.NewProtocolError("expected string NVS value", nil)
		}
		return nvscodec.EncodeString(s)
	default:
		return nil, protocol.NewProtocolError("unsupported NVS type for JSON decoding", nil)
	}
}

// NVSDelete implements protocol.Transport.
func (t *Transport) NVSDelete(ctx context.Context, key string) error {
	resp, err := t.client.R().SetContext(ctx).Delete(fmt.Sprintf("%s/api/nvs/%s", t.baseURL, key))
	if err != nil {
		return protocol.NewTransportError("deleting NVS key", err)
	}
	if resp.StatusCode() != 200 {
		return httpError("delete failed", resp)
	}
	return nil
}
