package camera

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PTZ command and operation vocabulary, matching the device-control wire
// protocol. Only PtzCtrl is handled; the operation set is validated before
// any network call.
const (
	CmdPtzCtrl = "PtzCtrl"

	OpLeft      = "Left"
	OpRight     = "Right"
	OpUp        = "Up"
	OpDown      = "Down"
	OpLeftUp    = "LeftUp"
	OpLeftDown  = "LeftDown"
	OpRightUp   = "RightUp"
	OpRightDown = "RightDown"
	OpZoomIn    = "ZoomInc"
	OpZoomOut   = "ZoomDec"
	OpToMarker  = "ToPos"
	OpStop      = "Stop"
)

// DefaultPTZSpeed is the motion speed sent when a move does not declare one.
const DefaultPTZSpeed = 32

var ptzOps = map[string]bool{
	OpLeft:      true,
	OpRight:     true,
	OpUp:        true,
	OpDown:      true,
	OpLeftUp:    true,
	OpLeftDown:  true,
	OpRightUp:   true,
	OpRightDown: true,
	OpZoomIn:    true,
	OpZoomOut:   true,
	OpToMarker:  true,
	OpStop:      true,
}

// ValidPTZOp reports whether op is in the PtzCtrl vocabulary.
func ValidPTZOp(op string) bool {
	return ptzOps[op]
}

// deviceClient speaks the camera's HTTP control API: JSON command arrays
// POSTed to api.cgi, responses carrying a per-command result code that
// must be checked because HTTP 200 does not imply command success.
type deviceClient struct {
	baseURL    string
	httpClient *http.Client
}

// newDeviceClient builds a client for https://<address>/api.cgi. Camera
// control endpoints ship self-signed certificates, so verification is off.
func newDeviceClient(address string, timeout time.Duration) *deviceClient {
	return &deviceClient{
		baseURL: fmt.Sprintf("https://%s/api.cgi", address),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

type deviceCommand struct {
	Cmd   string `json:"cmd"`
	Param any    `json:"param"`
}

type deviceResult struct {
	Cmd   string          `json:"cmd"`
	Code  int             `json:"code"`
	Value json.RawMessage `json:"value"`
}

type loginParam struct {
	User struct {
		Version  string `json:"Version"`
		UserName string `json:"userName"`
		Password string `json:"password"`
	} `json:"User"`
}

type loginValue struct {
	Token struct {
		Name      string `json:"name"`
		LeaseTime int    `json:"leaseTime"`
	} `json:"Token"`
}

type ptzParam struct {
	Channel int    `json:"channel"`
	Op      string `json:"op"`
	ID      *int   `json:"id,omitempty"`
	Speed   *int   `json:"speed,omitempty"`
}

// login performs one login attempt and returns the session token.
func (c *deviceClient) login(ctx context.Context, username, password string) (string, error) {
	param := loginParam{}
	param.User.Version = "0"
	param.User.UserName = username
	param.User.Password = password

	results, err := c.post(ctx, c.baseURL+"?cmd=Login", []deviceCommand{{Cmd: "Login", Param: param}})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("empty login response")
	}
	if results[0].Code != 0 {
		return "", fmt.Errorf("login rejected with code %d", results[0].Code)
	}

	var value loginValue
	if err := json.Unmarshal(results[0].Value, &value); err != nil {
		return "", fmt.Errorf("malformed login response: %w", err)
	}
	if value.Token.Name == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return value.Token.Name, nil
}

// ptzCtrl sends one PtzCtrl operation. Stop carries no speed, marker moves
// carry the marker id, directional and zoom moves carry the speed.
func (c *deviceClient) ptzCtrl(ctx context.Context, token, op string, marker, speed int) error {
	param := ptzParam{Channel: 0, Op: op}
	switch op {
	case OpStop:
	case OpToMarker:
		param.ID = &marker
		param.Speed = &speed
	default:
		param.Speed = &speed
	}

	endpoint := fmt.Sprintf("%s?cmd=%s&token=%s", c.baseURL, CmdPtzCtrl, url.QueryEscape(token))
	results, err := c.post(ctx, endpoint, []deviceCommand{{Cmd: CmdPtzCtrl, Param: param}})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("empty ptz response")
	}
	if results[0].Code != 0 {
		return fmt.Errorf("ptz %s rejected with code %d", op, results[0].Code)
	}
	return nil
}

func (c *deviceClient) post(ctx context.Context, endpoint string, commands []deviceCommand) ([]deviceResult, error) {
	body, err := json.Marshal(commands)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device returned HTTP %d", resp.StatusCode)
	}

	var results []deviceResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("malformed device response: %w", err)
	}
	return results, nil
}
