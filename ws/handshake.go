package ws

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// acceptGUID is RFC 6455 §1.3's fixed magic string.
const acceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// SubProtocol is a negotiated application sub-protocol. Modern names
// (rssl.rwf, rssl.json.v2) and their legacy aliases (tr_rwf, tr_json2)
// both resolve to the same SubProtocol (original_source/Cpp-C/Eta/Impl/
// Transport/rwsutils.c's RWS_SP_RWF/RWS_SP_JSON2 table).
type SubProtocol int

const (
	SubProtocolNone SubProtocol = iota
	SubProtocolRWF
	SubProtocolJSON2
)

func (p SubProtocol) WireName() string {
	switch p {
	case SubProtocolRWF:
		return "rssl.rwf"
	case SubProtocolJSON2:
		return "rssl.json.v2"
	default:
		return ""
	}
}

var subProtocolNames = map[string]SubProtocol{
	"rssl.rwf":     SubProtocolRWF,
	"tr_rwf":       SubProtocolRWF,
	"rssl.json.v2": SubProtocolJSON2,
	"tr_json2":     SubProtocolJSON2,
}

// ParseSubProtocols parses a comma-separated Sec-WebSocket-Protocol
// header value into recognized SubProtocols, in order, skipping unknowns.
func ParseSubProtocols(header string) []SubProtocol {
	var out []SubProtocol
	for _, tok := range strings.Split(header, ",") {
		tok = strings.TrimSpace(tok)
		if p, ok := subProtocolNames[tok]; ok {
			out = append(out, p)
		}
	}
	return out
}

// newNonce generates a fresh 16-byte, base64-encoded Sec-WebSocket-Key
// value from a strong RNG (spec.md §4.8 "Client connect flow").
func newNonce() string {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		panic(err) // crypto/rand.Read failing means the OS RNG is broken
	}
	return base64.StdEncoding.EncodeToString(raw[:])
}

// newMaskKey generates a fresh 4-byte client-frame masking key (RFC 6455
// §5.3 requires a new key per frame sent by the client role).
func newMaskKey() [4]byte {
	var key [4]byte
	if _, err := rand.Read(key[:]); err != nil {
		panic(err)
	}
	return key
}

// AcceptKey computes Sec-WebSocket-Accept from a client's Sec-WebSocket-Key
// (RFC 6455 §4.2.2): base64(SHA-1(key + GUID)).
func AcceptKey(clientKey string) string {
	h := sha1.New()
	h.Write([]byte(clientKey))
	h.Write([]byte(acceptGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// ExtensionParams is the negotiated permessage-deflate extension state
// (spec.md §3 "compression state ... no-context-takeover flags").
type ExtensionParams struct {
	Deflate                 bool
	ClientNoContextTakeover bool
	ServerNoContextTakeover bool
}

// ParseExtensions parses a Sec-WebSocket-Extensions header value,
// recognizing permessage-deflate and its no-context-takeover directives;
// unrecognized extensions are ignored.
func ParseExtensions(header string) ExtensionParams {
	var p ExtensionParams
	for _, ext := range strings.Split(header, ",") {
		parts := strings.Split(ext, ";")
		name := strings.TrimSpace(parts[0])
		if name != "permessage-deflate" {
			continue
		}
		p.Deflate = true
		for _, param := range parts[1:] {
			switch strings.TrimSpace(param) {
			case "client_no_context_takeover":
				p.ClientNoContextTakeover = true
			case "server_no_context_takeover":
				p.ServerNoContextTakeover = true
			}
		}
	}
	return p
}

func (p ExtensionParams) ResponseHeaderValue() string {
	if !p.Deflate {
		return ""
	}
	var b strings.Builder
	b.WriteString("permessage-deflate")
	if p.ClientNoContextTakeover {
		b.WriteString("; client_no_context_takeover")
	}
	if p.ServerNoContextTakeover {
		b.WriteString("; server_no_context_takeover")
	}
	return b.String()
}

// RejectReason distinguishes ServerHandshake's reject paths (spec.md
// §4.8 step 6: "400 generic bad request, 401 auth failure, 413 request
// too large, 400 with Sec-WebSocket-Version list for unsupported
// version"). Accepted means the handshake should proceed to the 101
// response.
type RejectReason int

const (
	Accepted RejectReason = iota
	RejectBadRequest
	RejectUnauthorized
	RejectTooLarge
	RejectUnsupportedVersion
)

// StatusCode is the HTTP status ServerHandshake's caller should write for
// this reason.
func (r RejectReason) StatusCode() int {
	switch r {
	case RejectUnauthorized:
		return http.StatusUnauthorized
	case RejectTooLarge:
		return http.StatusRequestEntityTooLarge
	case RejectBadRequest, RejectUnsupportedVersion:
		return http.StatusBadRequest
	default:
		return http.StatusSwitchingProtocols
	}
}

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectBadRequest:
		return "bad request"
	case RejectUnauthorized:
		return "unauthorized"
	case RejectTooLarge:
		return "request too large"
	case RejectUnsupportedVersion:
		return "unsupported version"
	default:
		return fmt.Sprintf("reject(%d)", int(r))
	}
}

// supportedVersions is this server's Sec-WebSocket-Version list, echoed
// back on RejectUnsupportedVersion per spec.md §4.8 step 6.
const supportedVersions = "13"

// ServerHandshakeOptions carries the handshake checks that have no fixed
// protocol answer: request-size policy and caller-supplied
// authentication, both optional.
type ServerHandshakeOptions struct {
	// MaxRequestSize rejects with RejectTooLarge when the request line
	// plus header bytes exceed this many bytes. Zero disables the check.
	MaxRequestSize int
	// Authenticate, if non-nil, rejects with RejectUnauthorized when it
	// returns false.
	Authenticate func(*http.Request) bool
}

// ServerHandshake validates an upgrade request and, if acceptable,
// returns the response headers to write plus the negotiated sub-protocol
// and extension state. r must carry Connection: Upgrade, Upgrade:
// websocket, Sec-WebSocket-Version: 13, and Sec-WebSocket-Key. opts may
// be nil to skip the optional size/auth checks.
func ServerHandshake(r *http.Request, serverPrefs []SubProtocol, opts *ServerHandshakeOptions) (headers http.Header, proto SubProtocol, ext ExtensionParams, reason RejectReason) {
	if opts != nil && opts.MaxRequestSize > 0 && requestSize(r) > opts.MaxRequestSize {
		return nil, 0, ExtensionParams{}, RejectTooLarge
	}
	if opts != nil && opts.Authenticate != nil && !opts.Authenticate(r) {
		return nil, 0, ExtensionParams{}, RejectUnauthorized
	}
	if !headerContainsToken(r.Header.Get("Connection"), "upgrade") {
		return nil, 0, ExtensionParams{}, RejectBadRequest
	}
	if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return nil, 0, ExtensionParams{}, RejectBadRequest
	}
	if r.Header.Get("Sec-WebSocket-Version") != "13" {
		headers = http.Header{"Sec-WebSocket-Version": {supportedVersions}}
		return headers, 0, ExtensionParams{}, RejectUnsupportedVersion
	}
	// A duplicate Sec-WebSocket-Key is a protocol error (spec.md §4.8
	// "Header parser ... Duplicate Sec-WebSocket-Key ⇒ 400"); net/http's
	// parser otherwise silently keeps only the first value.
	keys := r.Header.Values("Sec-WebSocket-Key")
	if len(keys) != 1 || keys[0] == "" {
		return nil, 0, ExtensionParams{}, RejectBadRequest
	}
	key := keys[0]

	offered := ParseSubProtocols(r.Header.Get("Sec-WebSocket-Protocol"))
	proto = negotiate(serverPrefs, offered)

	ext = ParseExtensions(r.Header.Get("Sec-WebSocket-Extensions"))

	headers = http.Header{}
	headers.Set("Upgrade", "websocket")
	headers.Set("Connection", "Upgrade")
	headers.Set("Sec-WebSocket-Accept", AcceptKey(key))
	if proto != SubProtocolNone {
		headers.Set("Sec-WebSocket-Protocol", proto.WireName())
	}
	if v := ext.ResponseHeaderValue(); v != "" {
		headers.Set("Sec-WebSocket-Extensions", v)
	}
	return headers, proto, ext, Accepted
}

func requestSize(r *http.Request) int {
	n := len(r.Method) + len(r.URL.String()) + len(r.Proto)
	for k, vs := range r.Header {
		for _, v := range vs {
			n += len(k) + len(v) + 4 // ": " + CRLF
		}
	}
	return n
}

// ClientHandshakeState is the nonce a client must retain between
// NewClientHandshake and VerifyServerHandshake.
type ClientHandshakeState struct {
	nonce string
}

// NewClientHandshake builds the upgrade request for target (the request
// line's path; scheme/host are the caller's net.Dial/http.Client
// concern), offering protocols in preference order, and returns the
// ClientHandshakeState to verify the eventual 101 response against
// (spec.md §4.8 "Client connect flow").
func NewClientHandshake(target string, protocols []SubProtocol, ext ExtensionParams) (*http.Request, ClientHandshakeState, error) {
	nonce := newNonce()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, ClientHandshakeState{}, err
	}
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", nonce)
	if len(protocols) > 0 {
		names := make([]string, len(protocols))
		for i, p := range protocols {
			names[i] = p.WireName()
		}
		req.Header.Set("Sec-WebSocket-Protocol", strings.Join(names, ", "))
	}
	if v := ext.ResponseHeaderValue(); v != "" {
		req.Header.Set("Sec-WebSocket-Extensions", v)
	}
	return req, ClientHandshakeState{nonce: nonce}, nil
}

// VerifyServerHandshake checks a 101 response against the nonce captured
// by NewClientHandshake: the response must be 101 Switching Protocols
// and its Sec-WebSocket-Accept must equal the locally computed value.
// Any mismatch terminates the handshake (ok=false) per spec.md §4.8.
func VerifyServerHandshake(resp *http.Response, state ClientHandshakeState) (proto SubProtocol, ext ExtensionParams, ok bool) {
	if resp.StatusCode != http.StatusSwitchingProtocols {
		return 0, ExtensionParams{}, false
	}
	if !strings.EqualFold(resp.Header.Get("Upgrade"), "websocket") {
		return 0, ExtensionParams{}, false
	}
	want := AcceptKey(state.nonce)
	if resp.Header.Get("Sec-WebSocket-Accept") != want {
		return 0, ExtensionParams{}, false
	}
	if p, ok := subProtocolNames[resp.Header.Get("Sec-WebSocket-Protocol")]; ok {
		proto = p
	}
	ext = ParseExtensions(resp.Header.Get("Sec-WebSocket-Extensions"))
	return proto, ext, true
}

// negotiate picks the first server-preferred protocol the client also
// offered; if serverPrefs is empty, the client's first offering wins.
func negotiate(serverPrefs, offered []SubProtocol) SubProtocol {
	offeredSet := map[SubProtocol]bool{}
	for _, p := range offered {
		offeredSet[p] = true
	}
	for _, p := range serverPrefs {
		if offeredSet[p] {
			return p
		}
	}
	if len(serverPrefs) == 0 && len(offered) > 0 {
		return offered[0]
	}
	return SubProtocolNone
}

func headerContainsToken(header, token string) bool {
	for _, tok := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(tok), token) {
			return true
		}
	}
	return false
}
