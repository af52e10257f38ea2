package ws

import jsoniter "github.com/json-iterator/go"

// json2Envelope is the outermost shape every rssl.json.v2 message shares;
// full JSON2 field mapping is out of scope, so only enough is probed here
// to route a frame (text opcode, message class/ID for log correlation).
type json2Envelope struct {
	ID   int64  `json:"ID,omitempty"`
	Type string `json:"Type"`
}

var json2API = jsoniter.ConfigCompatibleWithStandardLibrary

// ProbeJSON2 extracts the envelope fields from a text-frame payload
// without validating or decoding the full message; ok is false if
// payload isn't a JSON object with at least a "Type" field.
func ProbeJSON2(payload []byte) (id int64, msgType string, ok bool) {
	var env json2Envelope
	if err := json2API.Unmarshal(payload, &env); err != nil || env.Type == "" {
		return 0, "", false
	}
	return env.ID, env.Type, true
}
