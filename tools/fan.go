package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"jarvis/config"
)

const (
	FanOn      = "ON"
	FanOff     = "OFF"
	FanUnknown = "UNKNOWN"

	fanStatusTimeout  = 5 * time.Second
	fanCommandTimeout = 3 * time.Second
)

var fanStateRE = regexp.MustCompile(`Current State: <b>(ON|OFF)</b>`)

// Fan drives the ESP8266 fan controller through its small web UI.
type Fan struct {
	baseURL string
	client  *http.Client
}

// NewFan returns a controller for host ("192.168.1.50" or a full URL).
// An empty host leaves the fan permanently UNKNOWN.
func NewFan(host string, client *http.Client) *Fan {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host != "" && !strings.Contains(host, "://") {
		host = "http://" + host
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Fan{baseURL: host, client: client}
}

// Status returns ON, OFF or UNKNOWN. Connection problems read as UNKNOWN.
func (f *Fan) Status(ctx context.Context) string {
	if f.baseURL == "" {
		return FanUnknown
	}

	ctx, cancel := context.WithTimeout(ctx, fanStatusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/", nil)
	if err != nil {
		return FanUnknown
	}
	resp, err := f.client.Do(req)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Fan] Error connecting to fan controller: %v", err)
		}
		return FanUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FanUnknown
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return FanUnknown
	}
	if m := fanStateRE.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	return FanUnknown
}

func (f *Fan) send(ctx context.Context, endpoint string) error {
	if f.baseURL == "" {
		return fmt.Errorf("no fan controller host configured")
	}

	ctx, cancel := context.WithTimeout(ctx, fanCommandTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send command to the fan controller: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fan controller returned %s", resp.Status)
	}
	return nil
}

func (f *Fan) setState(ctx context.Context, call Call) (string, error) {
	target := strings.ToLower(strings.TrimSpace(call.String("target_state")))
	if target != "on" && target != "off" {
		return "Error: Invalid target state. Please use 'on' or 'off'.", nil
	}

	current := f.Status(ctx)
	if current == FanUnknown {
		return "Could not determine the fan's current state. Cannot proceed.", nil
	}
	if strings.ToLower(current) == target {
		return fmt.Sprintf("No action taken. The fan is already %s.", current), nil
	}

	if err := f.send(ctx, "toggle"); err != nil {
		return "", err
	}
	return fmt.Sprintf("Success. The fan has been turned %s.", strings.ToUpper(target)), nil
}

func (f *Fan) adjust(endpoint, done string) Func {
	return func(ctx context.Context, _ Call) (string, error) {
		if f.Status(ctx) != FanOn {
			return "Action failed. Cannot adjust power because the fan is off.", nil
		}
		if err := f.send(ctx, endpoint); err != nil {
			return "", err
		}
		return done, nil
	}
}

func (f *Fan) Tools() []Tool {
	return []Tool{
		{
			Name:   "set_fan_state",
			Params: []Param{{Name: "target_state", Description: "'on' or 'off'"}},
			Doc: "Sets the fan to a desired state ('on' or 'off'). " +
				"It automatically checks the current state and only acts if a change is needed.",
			Func: f.setState,
		},
		{
			Name: "add_power_fan",
			Doc:  "Increases the power of the fan. Will fail if the fan is currently off.",
			Func: f.adjust("send_add_power", "Increased fan power."),
		},
		{
			Name: "lower_power_fan",
			Doc:  "Decreases the power of the fan. Will fail if the fan is currently off.",
			Func: f.adjust("send_lower_power", "Decreased fan power."),
		},
	}
}
