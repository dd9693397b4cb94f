package remote

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Frame events.
const (
	EventCommand  = "command"
	EventResponse = "response"
)

// EncodeFrame builds {"event": event, "data": data}. data may be a string,
// nil or any JSON-marshalable value.
func EncodeFrame(event string, data any) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "event", event)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "data", data)
}

// DecodeFrame splits a frame into its event name and raw data.
func DecodeFrame(msg []byte) (string, gjson.Result, bool) {
	if !gjson.ValidBytes(msg) {
		return "", gjson.Result{}, false
	}
	event := gjson.GetBytes(msg, "event")
	if event.Type != gjson.String {
		return "", gjson.Result{}, false
	}
	return event.String(), gjson.GetBytes(msg, "data"), true
}

// EncodeResponse builds the data of a response frame. A nil response is
// encoded as JSON null.
func EncodeResponse(command string, response *string) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "command", command)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return sjson.SetRawBytes(out, "response", []byte("null"))
	}
	return sjson.SetBytes(out, "response", *response)
}

// DecodeResponse reads {"command", "response"} out of a response frame's data.
func DecodeResponse(data gjson.Result) (string, *string) {
	command := data.Get("command").String()
	resp := data.Get("response")
	if !resp.Exists() || resp.Type == gjson.Null {
		return command, nil
	}
	text := resp.String()
	return command, &text
}
